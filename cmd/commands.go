package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpin "pickingpacking/internal/adapters/in/http"
	"pickingpacking/internal/adapters/in/layout"
	"pickingpacking/internal/adapters/out/postgres"
	"pickingpacking/internal/platform/observability"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

// NewRootCommand creates the root command of the fulfillment service.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "pickingpacking",
		Short:         "Picking & packing fulfillment service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))
	return cmd
}

func newServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the fulfillment controller and the scheduled jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(opts.EnvFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg Config) error {
	instruments, shutdownTelemetry, err := observability.Init(ctx, observability.Options{
		ServiceName:  cfg.ServiceName,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTelemetry(shutdownCtx)
	}()

	app, err := NewCompositionRoot(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	logger := app.Logger()

	if cfg.LayoutFile != "" {
		if err := seedLayout(ctx, app, cfg.LayoutFile); err != nil {
			return err
		}
	}

	e, err := httpin.NewRouter(app.CreateHTTPServer())
	if err != nil {
		return err
	}

	ctx, stopController := context.WithCancel(ctx)
	defer stopController()
	controllerDone := make(chan error, 1)
	go func() { controllerDone <- app.Controller().Run(ctx) }()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = errors.Join(err, e.Shutdown(shutdownCtx))
	stopController()
	err = errors.Join(err, <-controllerDone)
	logger.Info("service stopped")
	return err
}

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the PostgreSQL schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(opts.EnvFile)
			if err != nil {
				return err
			}
			if !cfg.UsesPostgres() {
				return errors.New("migrate needs DB_HOST")
			}

			db, err := OpenDatabase(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer func() { _ = sqlDB.Close() }()
			}
			if err := postgres.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			cmd.Println("schema is up to date")
			return nil
		},
	}
}

func newSeedCommand(opts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create connectors, pick carts and packing stations from a layout file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(opts.EnvFile)
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.LayoutFile
			}
			if file == "" {
				return errors.New("seed needs --file or LAYOUT_FILE")
			}
			if !cfg.UsesPostgres() {
				return errors.New("seed needs DB_HOST; the in-memory store is seeded by serve through LAYOUT_FILE")
			}

			app, err := NewCompositionRoot(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return seedLayout(cmd.Context(), app, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "layout YAML file (defaults to LAYOUT_FILE)")
	return cmd
}

func seedLayout(ctx context.Context, app *CompositionRoot, file string) error {
	l, err := layout.LoadFile(file)
	if err != nil {
		return err
	}
	_, err = app.CreateLayoutSeeder().Apply(ctx, l)
	return err
}
