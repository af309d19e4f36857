// Package server exposes the daily statistics calculator and the point
// time series over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/rtm0/era5stats/internal/cds"
	"github.com/rtm0/era5stats/internal/daily"
	"github.com/rtm0/era5stats/internal/timeseries"
)

// Config holds the server settings.
type Config struct {
	// RateLimit is the number of requests per second allowed per client.
	// Zero or less disables limiting.
	RateLimit int
	// Concurrency bounds the retrievals in flight per request.
	Concurrency int
	// WorkDir receives NetCDF files while they are sent. Empty means the
	// system temporary directory.
	WorkDir     string
	Compression CompressionConfig
}

// DefaultConfig returns the settings used when no flag overrides them.
func DefaultConfig() Config {
	return Config{
		RateLimit:   5,
		Concurrency: 4,
		Compression: DefaultCompressionConfig(),
	}
}

// Server serves the HTTP API.
type Server struct {
	logger     *slog.Logger
	cfg        Config
	calculator *daily.Calculator
	series     *timeseries.Service
	now        func() time.Time
}

// New creates a server retrieving data with r.
func New(logger *slog.Logger, r cds.Retriever, cfg Config) *Server {
	s := &Server{
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
	s.calculator = &daily.Calculator{Retriever: r, Logger: logger, Concurrency: cfg.Concurrency, Now: s.clock}
	s.series = &timeseries.Service{Retriever: r, Logger: logger, Concurrency: cfg.Concurrency, Now: s.clock}
	return s
}

func (s *Server) clock() time.Time {
	return s.now()
}

// Handler returns the routes wrapped in the logging, rate limiting and
// compression middleware.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/healthz", s.healthzHandler)
	router.HandlerFunc(http.MethodGet, "/v1/catalogue", s.catalogueHandler)
	router.HandlerFunc(http.MethodGet, "/v1/daily-statistics", s.dailyStatisticsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/point-series", s.pointSeriesHandler)
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.errorResponse(w, r, http.StatusNotFound, "not found")
	})

	var h http.Handler = router
	h = NewCompressionMiddleware(s.cfg.Compression)(h)
	h = NewRateLimitMiddleware(s.cfg.RateLimit, time.Second, s.errorResponse)(h)
	h = NewRequestLoggingMiddleware(s.logger)(h)
	return h
}
