package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/clinicbook/internal/buildinfo"
	"github.com/dmitrijs2005/clinicbook/internal/client/appointments"
	"github.com/dmitrijs2005/clinicbook/internal/client/cli"
	"github.com/dmitrijs2005/clinicbook/internal/client/config"
	"github.com/dmitrijs2005/clinicbook/internal/client/identity"
	"github.com/dmitrijs2005/clinicbook/internal/client/services"
	"github.com/dmitrijs2005/clinicbook/internal/client/storage"
	"github.com/dmitrijs2005/clinicbook/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "clinicbook stopped", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	st, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.Close()

	dir, err := identity.LoadDirectory(cfg.StudentsFile)
	if err != nil {
		return err
	}

	auth := services.NewAuthService(dir,
		identity.NewSessions(cfg.SessionSecret, cfg.SessionTTL),
		identity.NewLimiter(cfg.LoginBurst, cfg.LoginCooldown),
		st.Repo, logger)
	profiles := services.NewProfileService(st.Repo)
	store := appointments.NewStore(st.Repo, logger, appointments.WithWriteTimeout(cfg.PersistTimeout))

	app := cli.NewApp(auth, profiles, store, logger, os.Stdin, os.Stdout)
	app.Run(ctx)

	flushCtx, cancel := context.WithTimeout(context.Background(), cfg.PersistTimeout)
	defer cancel()
	if err := store.Close(flushCtx); err != nil {
		logger.Warn(ctx, "pending appointment writes abandoned", "err", err)
	}
	return nil
}
