package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFile is loaded into the process environment when present.
// Existing variables are not overwritten.
var dotenvFile = ".env"

// parseEnv overlays cfg with CLINICBOOK_* environment variables.
func parseEnv(cfg *Config) {
	_ = godotenv.Load(dotenvFile)

	setString(&cfg.Backend, "CLINICBOOK_BACKEND")
	setString(&cfg.DatabaseDSN, "CLINICBOOK_DSN")
	setString(&cfg.PostgresDSN, "CLINICBOOK_POSTGRES_DSN")
	setString(&cfg.S3Bucket, "CLINICBOOK_S3_BUCKET")
	setString(&cfg.S3Region, "CLINICBOOK_S3_REGION")
	setString(&cfg.S3Endpoint, "CLINICBOOK_S3_ENDPOINT")
	setString(&cfg.S3AccessKey, "CLINICBOOK_S3_ACCESS_KEY")
	setString(&cfg.S3SecretKey, "CLINICBOOK_S3_SECRET_KEY")
	setString(&cfg.S3Prefix, "CLINICBOOK_S3_PREFIX")
	setString(&cfg.StudentsFile, "CLINICBOOK_STUDENTS_FILE")
	setString(&cfg.SessionSecret, "CLINICBOOK_SESSION_SECRET")
	setString(&cfg.LogLevel, "CLINICBOOK_LOG_LEVEL")
	setDuration(&cfg.SessionTTL, "CLINICBOOK_SESSION_TTL")
	setDuration(&cfg.PersistTimeout, "CLINICBOOK_PERSIST_TIMEOUT")

	if v, err := strconv.Atoi(os.Getenv("CLINICBOOK_LOGIN_BURST")); err == nil && v > 0 {
		cfg.LoginBurst = v
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		*dst = d
	}
}
