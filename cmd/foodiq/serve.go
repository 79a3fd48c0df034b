package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"foodiq-go/internal/app"
	"foodiq-go/internal/handlers"
)

type serveOptions struct {
	configPath string
	addr       string
	dbPath     string
	staticDir  string
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config and ADDR)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides config and DB_PATH)")
	cmd.Flags().StringVar(&opts.staticDir, "static", "", "directory of front-end files to serve")
	return cmd
}

// loadConfig layers the YAML file, then the environment, then flags.
func (o *serveOptions) loadConfig() (app.Config, error) {
	cfg, err := app.LoadConfigFile(o.configPath)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.Getenv)
	if o.addr != "" {
		cfg.Addr = o.addr
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.staticDir != "" {
		cfg.StaticDir = o.staticDir
	}
	return cfg, nil
}

func runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("app init failed", "err", err)
		return err
	}
	defer a.Close()

	cfg = a.Config()
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handlers.NewRouter(a),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "db", cfg.DBPath, "push", a.Push().Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			logger.Error("server error", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", "err", err)
	}
	logger.Info("shutdown complete")
	return nil
}
