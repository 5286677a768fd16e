package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/clinicbook/internal/flagx"
	"github.com/dmitrijs2005/clinicbook/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	Backend        string         `json:"backend"`
	DatabaseDSN    string         `json:"database_dsn"`
	PostgresDSN    string         `json:"postgres_dsn"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3Endpoint     string         `json:"s3_endpoint"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	S3Prefix       string         `json:"s3_prefix"`
	StudentsFile   string         `json:"students_file"`
	SessionSecret  string         `json:"session_secret"`
	SessionTTL     timex.Duration `json:"session_ttl"`
	LoginBurst     int            `json:"login_burst"`
	LoginCooldown  timex.Duration `json:"login_cooldown"`
	PersistTimeout timex.Duration `json:"persist_timeout"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config, if any.
// Fields absent from the file keep their current values.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlay(&cfg.Backend, jc.Backend)
	overlay(&cfg.DatabaseDSN, jc.DatabaseDSN)
	overlay(&cfg.PostgresDSN, jc.PostgresDSN)
	overlay(&cfg.S3Bucket, jc.S3Bucket)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3Endpoint, jc.S3Endpoint)
	overlay(&cfg.S3AccessKey, jc.S3AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3SecretKey)
	overlay(&cfg.S3Prefix, jc.S3Prefix)
	overlay(&cfg.StudentsFile, jc.StudentsFile)
	overlay(&cfg.SessionSecret, jc.SessionSecret)
	overlay(&cfg.LogLevel, jc.LogLevel)

	if jc.SessionTTL.Duration > 0 {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.LoginCooldown.Duration > 0 {
		cfg.LoginCooldown = jc.LoginCooldown.Duration
	}
	if jc.PersistTimeout.Duration > 0 {
		cfg.PersistTimeout = jc.PersistTimeout.Duration
	}
	if jc.LoginBurst > 0 {
		cfg.LoginBurst = jc.LoginBurst
	}
	return nil
}
