package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anand/job-board/internal/config"
	"github.com/anand/job-board/internal/logger"
	"github.com/anand/job-board/internal/refresh"
	"github.com/anand/job-board/internal/server"
	"github.com/anand/job-board/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the catalog, posting and intake endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := store.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	if cfg.AdminEmail != "" {
		if err := seedAdmin(ctx, st, cfg, log); err != nil {
			return err
		}
	}

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		PageSize:  cfg.PageSize,
		ResumeDir: cfg.ResumeDir,
	}, st, refresh.NewHub(), log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// seedAdmin creates the configured admin account on first start. An existing
// account keeps its stored credential.
func seedAdmin(ctx context.Context, st *store.Store, cfg *config.Config, log *zap.Logger) error {
	passwordConfig, err := config.LoadPassword()
	if err != nil {
		return fmt.Errorf("failed to load password config: %w", err)
	}

	hash, err := passwordConfig.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if err := st.EnsureAdmin(ctx, cfg.AdminEmail, hash); err != nil {
		return err
	}

	log.Info("admin account ensured", zap.String("email", cfg.AdminEmail))
	return nil
}
