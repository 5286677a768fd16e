// Package storage opens the key-value backend selected in the configuration
// and prepares it for use (file directories, schema migrations, clients).
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/clinicbook/internal/client/config"
	"github.com/dmitrijs2005/clinicbook/internal/client/migrations"
	"github.com/dmitrijs2005/clinicbook/internal/client/repositories/kv"
	"github.com/dmitrijs2005/clinicbook/internal/common"
	"github.com/dmitrijs2005/clinicbook/internal/filex"
	"github.com/dmitrijs2005/clinicbook/internal/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Test seams.
var (
	openDB = sql.Open

	gooseUp = func(ctx context.Context, db *sql.DB, dialect, dir string) error {
		goose.SetBaseFS(migrations.Migrations)
		goose.SetLogger(goose.NopLogger())
		if err := goose.SetDialect(dialect); err != nil {
			return err
		}
		return goose.UpContext(ctx, db, dir)
	}

	newS3API = func(ctx context.Context, cfg *config.Config) (kv.ObjectAPI, error) {
		opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
		if cfg.S3AccessKey != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.S3Endpoint)
				o.UsePathStyle = true
			}
		}), nil
	}
)

// Storage is an opened backend. Close releases the underlying connection.
type Storage struct {
	Repo    kv.Repository
	Backend string
	closer  io.Closer
}

func (s *Storage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open connects to the backend named by cfg.Backend.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Storage, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := filex.EnsureParentDir(cfg.DatabaseDSN); err != nil {
			return nil, err
		}
		db, err := openSQL(ctx, "sqlite", cfg.DatabaseDSN, "sqlite3", migrations.SQLiteDir)
		if err != nil {
			return nil, err
		}
		logger.Debug(ctx, "storage opened", "backend", cfg.Backend, "dsn", cfg.DatabaseDSN)
		return &Storage{Repo: kv.NewSQLiteRepository(db), Backend: cfg.Backend, closer: db}, nil

	case config.BackendPostgres:
		db, err := openSQL(ctx, "pgx", cfg.PostgresDSN, "postgres", migrations.PostgresDir)
		if err != nil {
			return nil, err
		}
		logger.Debug(ctx, "storage opened", "backend", cfg.Backend)
		return &Storage{Repo: kv.NewPostgresRepository(db), Backend: cfg.Backend, closer: db}, nil

	case config.BackendS3:
		api, err := newS3API(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		logger.Debug(ctx, "storage opened", "backend", cfg.Backend, "bucket", cfg.S3Bucket)
		return &Storage{Repo: kv.NewS3Repository(api, cfg.S3Bucket, cfg.S3Prefix), Backend: cfg.Backend}, nil

	case config.BackendMemory:
		return &Storage{Repo: kv.NewMemoryRepository(), Backend: cfg.Backend}, nil
	}

	return nil, fmt.Errorf("%w: %q", common.ErrUnknownBackend, cfg.Backend)
}

func openSQL(ctx context.Context, driver, dsn, dialect, dir string) (*sql.DB, error) {
	db, err := openDB(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// one writer at a time; avoids SQLITE_BUSY from concurrent slot writes
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := gooseUp(ctx, db, dialect, dir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}
