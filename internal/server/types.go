package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeKo-Tech/barcodegen/internal/fonts"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	defaults     RenderDefaults
	fonts        *fonts.Registry
	corsOrigin   string
	maxDimension int
	rateLimiter  *RateLimiter
}

// RenderDefaults fill fields a request leaves empty.
type RenderDefaults struct {
	Font      string
	Width     int
	Height    int
	Symbology string
	Format    string
	Spacing   bool
	Verify    bool
}

// RateLimitConfig holds per-client limits. Zero disables a limit.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	RequestsPerHour   int
	MaxRequestsPerDay int
}

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	CORSOrigin   string
	TimeoutSec   int
	MaxDimension int
	Defaults     RenderDefaults
	Fonts        *fonts.Registry
	RateLimit    RateLimitConfig
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type SymbologyInfo struct {
	Name       string `json:"name"`
	Dimensions int    `json:"dimensions"`
	Verifiable bool   `json:"verifiable"`
}

type SymbologiesResponse struct {
	Symbologies []SymbologyInfo `json:"symbologies"`
	Formats     []string        `json:"formats"`
	Fonts       []string        `json:"fonts"`
	Count       int             `json:"count"`
}

// BarcodeResponse is returned for base64-encoded renders and for errors.
type BarcodeResponse struct {
	Success     bool   `json:"success"`
	RequestID   string `json:"request_id,omitempty"`
	Format      string `json:"format,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Data        string `json:"data,omitempty"`
	Error       string `json:"error,omitempty"`
	ErrorType   string `json:"error_type,omitempty"`
}

// NewServer creates a new barcode server instance.
func NewServer(config Config) (*Server, error) {
	registry := config.Fonts
	if registry == nil {
		registry = fonts.Default()
	}

	s := &Server{
		defaults:     config.Defaults,
		fonts:        registry,
		corsOrigin:   config.CORSOrigin,
		maxDimension: config.MaxDimension,
	}
	if s.corsOrigin == "" {
		s.corsOrigin = "*"
	}

	if config.RateLimit.Enabled {
		s.rateLimiter = NewRateLimiter(
			config.RateLimit.RequestsPerMinute,
			config.RateLimit.RequestsPerHour,
			config.RateLimit.MaxRequestsPerDay,
		)
	}

	return s, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/symbologies", s.corsMiddleware(s.symbologiesHandler))
	mux.HandleFunc("/barcode", s.corsMiddleware(s.rateLimitMiddleware(s.barcodeHandler)))
	mux.HandleFunc("/ws", s.rateLimitMiddleware(s.barcodeWebSocketHandler))
	mux.Handle("/metrics", promhttp.Handler())
}

// PruneRateLimits drops stale rate limit entries every interval until ctx is
// done.
func (s *Server) PruneRateLimits(ctx context.Context, interval time.Duration) {
	if s.rateLimiter == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.rateLimiter.Prune(); n > 0 {
				slog.Debug("Pruned rate limit entries", "clients", n)
			}
		}
	}
}
