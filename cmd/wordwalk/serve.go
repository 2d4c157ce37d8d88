package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/CTAG07/wordwalk/internal/api"
	"github.com/CTAG07/wordwalk/internal/cache"
	"github.com/CTAG07/wordwalk/pkg/templating"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  `Serves the stored grammars, generation, template rendering and Prometheus metrics over HTTP. A default config file is written when none exists.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			config, err := LoadConfig(path)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			applyOverrides(cmd, config)
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				config.Server.ApiAddr = addr
			}
			return runServer(cmd.Context(), config, cmd)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides the config file)")
	return cmd
}

// runServer hosts the API until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, config *Config, cmd *cobra.Command) error {
	logger := commandLogger(cmd, config)
	logger.Info("Starting server...")

	st, closer, err := openStore(config, logger)
	if err != nil {
		return err
	}
	defer func(closer io.Closer) {
		logger.Info("Closing database connection.")
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}(closer)

	tm, err := templating.NewTemplateManager(logger, st, *config.Templates, config.Server.TemplateDir)
	if err != nil {
		return fmt.Errorf("failed to create template manager: %w", err)
	}

	var paragraphCache cache.Cache = cache.Nop{}
	if config.Server.RedisAddr != "" {
		rc := cache.NewRedis(config.Server.RedisAddr, config.Server.RedisPassword, config.Server.RedisDB,
			cache.WithTTL(time.Duration(config.Server.CacheTTLSec)*time.Second))
		defer func() {
			_ = rc.Close()
		}()
		if err = rc.Ping(ctx); err != nil {
			logger.Warn("Redis unavailable, paragraph cache disabled", "addr", config.Server.RedisAddr, "error", err)
		} else {
			logger.Info("Paragraph cache enabled", "addr", config.Server.RedisAddr)
			paragraphCache = rc
		}
	}

	a := api.New(st, tm, paragraphCache, logger, api.Config{
		AllowedOrigins: config.Server.AllowedOrigins,
		MaxLength:      config.Server.MaxLength,
		RequestTimeout: time.Duration(config.Server.RequestTimeout) * time.Second,
	})

	srv := &http.Server{
		Addr:              config.Server.ApiAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting api server", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err = <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Api server shutdown failed", "error", err)
		return err
	}
	logger.Info("HTTP server stopped.")
	return nil
}
