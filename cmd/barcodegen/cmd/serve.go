package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/barcodegen/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the barcode API",
	Long: `Start an HTTP server that renders barcodes on request.

The server provides the following endpoints:
  GET|POST /barcode     - Render a barcode (query parameters or JSON body)
  GET      /symbologies - List symbologies, formats and fonts
  GET      /health      - Health check endpoint
  GET      /metrics     - Prometheus metrics
           /ws          - WebSocket render requests

Examples:
  barcodegen serve
  barcodegen serve --port 8080
  barcodegen serve --host 0.0.0.0 --port 3000 --rate-limit-enabled`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		flags := cmd.Flags()

		host := cfg.Server.Host
		if flags.Changed("host") {
			host, _ = flags.GetString("host")
		}

		port := cfg.Server.Port
		if flags.Changed("port") {
			port, _ = flags.GetInt("port")
		}

		corsOrigin := cfg.Server.CORSOrigin
		if flags.Changed("cors-origin") {
			corsOrigin, _ = flags.GetString("cors-origin")
		}

		timeout := cfg.Server.TimeoutSec
		if flags.Changed("timeout") {
			timeout, _ = flags.GetInt("timeout")
		}

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if flags.Changed("shutdown-timeout") {
			shutdownTimeout, _ = flags.GetInt("shutdown-timeout")
		}

		maxDimension := cfg.Server.MaxDimension
		if flags.Changed("max-dimension") {
			maxDimension, _ = flags.GetInt("max-dimension")
		}

		rateLimit := server.RateLimitConfig{
			Enabled:           cfg.Server.RateLimit.Enabled,
			RequestsPerMinute: cfg.Server.RateLimit.RequestsPerMinute,
			RequestsPerHour:   cfg.Server.RateLimit.RequestsPerHour,
			MaxRequestsPerDay: cfg.Server.RateLimit.MaxRequestsPerDay,
		}
		if flags.Changed("rate-limit-enabled") {
			rateLimit.Enabled, _ = flags.GetBool("rate-limit-enabled")
		}
		if flags.Changed("requests-per-minute") {
			rateLimit.RequestsPerMinute, _ = flags.GetInt("requests-per-minute")
		}
		if flags.Changed("requests-per-hour") {
			rateLimit.RequestsPerHour, _ = flags.GetInt("requests-per-hour")
		}
		if flags.Changed("max-requests-per-day") {
			rateLimit.MaxRequestsPerDay, _ = flags.GetInt("max-requests-per-day")
		}

		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", port)
		}

		registry, err := fontRegistry(cfg.Fonts.Dirs)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		srv, err := server.NewServer(server.Config{
			Host:         host,
			Port:         port,
			CORSOrigin:   corsOrigin,
			TimeoutSec:   timeout,
			MaxDimension: maxDimension,
			Fonts:        registry,
			RateLimit:    rateLimit,
			Defaults: server.RenderDefaults{
				Font:      cfg.Render.Font,
				Width:     cfg.Render.Width,
				Height:    cfg.Render.Height,
				Symbology: cfg.Render.Symbology,
				Format:    cfg.Render.Format,
				Spacing:   cfg.Render.Spacing,
				Verify:    cfg.Render.Verify,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}

		mux := http.NewServeMux()
		srv.SetupRoutes(mux)

		httpServer := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       time.Duration(timeout) * time.Second,
			WriteTimeout:      time.Duration(timeout) * time.Second,
		}

		go func() {
			slog.Info("Starting barcode server", "host", host, "port", port,
				"rate_limit", rateLimit.Enabled, "max_dimension", maxDimension)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Server error", "error", err)
				cancel()
			}
		}()

		go srv.PruneRateLimits(ctx, time.Hour)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
		case <-ctx.Done():
			slog.Info("Context cancelled, initiating shutdown")
		}

		slog.Info("Starting graceful shutdown", "timeout", fmt.Sprintf("%ds", shutdownTimeout))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
			return err
		}

		slog.Info("Graceful shutdown completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	serveCmd.Flags().Int("timeout", 30, "request timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	serveCmd.Flags().Int("max-dimension", 4096, "largest accepted width or height in pixels")
	// Rate limiting flags
	serveCmd.Flags().Bool("rate-limit-enabled", false, "enable rate limiting")
	serveCmd.Flags().Int("requests-per-minute", 120, "maximum requests per minute per client")
	serveCmd.Flags().Int("requests-per-hour", 3000, "maximum requests per hour per client")
	serveCmd.Flags().Int("max-requests-per-day", 20000, "maximum requests per day per client")
}
