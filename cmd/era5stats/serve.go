package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rtm0/era5stats/internal/server"
)

// Command-line flags
var (
	servePort         int
	serveWriteTimeout time.Duration
	serveConfig       = server.DefaultConfig()
	serveRetrieval    *retrievalFlags
)

var cmdServe = &Command{
	UsageLine: "serve [-port number] [-rate-limit n] [-write-timeout duration]",
	Short:     "serve the calculations over HTTP",
	Long: `
Serve starts an HTTP server with the following endpoints:

  GET /healthz               liveness probe
  GET /v1/catalogue          the output of 'era5stats catalogue'
  GET /v1/daily-statistics   the daily command; query parameters dataset,
                             product_type, variable, pressure_level,
                             statistic, year, month, time_zone, frequency,
                             grid, area (north,west,south,east) and format
                             (netcdf or csv)
  GET /v1/point-series       the point command; query parameters lat, lon,
                             variable, start_year, years and format (png or
                             csv)

Invalid parameters are answered with 400 and a fieldErrors object naming
every rejected parameter. Failed retrievals are answered with 502.

Requests are limited to -rate-limit per second per client address and
responses are gzip compressed for clients which accept it. Retrievals can
take many minutes, so -write-timeout should be generous.
`,
}

func init() {
	cmdServe.Run = runServe // break init cycle
	fs := &cmdServe.Flag
	fs.IntVar(&servePort, "port", 4000, "API server port")
	fs.DurationVar(&serveWriteTimeout, "write-timeout", 30*time.Minute, "maximum duration of a response")
	fs.IntVar(&serveConfig.RateLimit, "rate-limit", serveConfig.RateLimit, "requests per second per client; 0 disables limiting")
	fs.IntVar(&serveConfig.Compression.Level, "gzip-level", serveConfig.Compression.Level, "gzip compression level, 1-9")
	fs.IntVar(&serveConfig.Compression.MinSize, "gzip-min-size", serveConfig.Compression.MinSize, "minimum response size in bytes to compress")
	serveRetrieval = addRetrievalFlags(fs)
}

func runServe(cmd *Command, args []string) {
	if len(args) != 0 {
		cmd.Usage()
	}
	serveConfig.Concurrency = serveRetrieval.concurrency
	serveConfig.WorkDir = serveRetrieval.cfg.WorkDir
	app := server.New(logger, serveRetrieval.client(), serveConfig)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", servePort),
		Handler:      app.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: serveWriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	atexit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown failed", "err", err)
		}
	})

	logger.Info("starting server", "addr", srv.Addr, "rateLimit", serveConfig.RateLimit)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal("Server failed", err)
	}
}
