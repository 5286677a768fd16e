package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/clinicbook/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only the flags handled here are considered, so -c/-config and any
// unrelated arguments pass through untouched.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-b", "-d", "-u", "-l", "-t"})

	fs := flag.NewFlagSet("clinicbook", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "storage backend (sqlite, postgres, s3, memory)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "SQLite database file")
	fs.StringVar(&cfg.StudentsFile, "u", cfg.StudentsFile, "students directory JSON file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	timeout := fs.Int("t", int(cfg.PersistTimeout.Seconds()), "persistence write timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.PersistTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
