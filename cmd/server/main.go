package main

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hrms/internal/app/server"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
	"hrms/internal/platform/logging"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.WithError(err).Fatal("hrms exited")
	}
}

func rootCmd() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background scheduler",
		RunE:  runServe,
	}
	root := &cobra.Command{
		Use:           "hrms",
		Short:         "HR management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(serve, &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE:  runMigrate,
	}, &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap admin account and exit",
		RunE:  runSeed,
	})
	return root
}

func loadConfig() (config.Config, error) {
	cfg := config.Load()
	logging.Setup(cfg.Environment, cfg.LogLevel)
	if cfg.EphemeralJWTSecret {
		log.Warn("JWT_SECRET is unset; using a random per-process secret, tokens will not survive a restart")
	}
	return cfg, cfg.Validate()
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Run(ctx)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pool, err := db.Connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return db.Migrate(cmd.Context(), pool)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pool, err := db.Connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return db.Seed(cmd.Context(), pool, cfg)
}
