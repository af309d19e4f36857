package server

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/rtm0/era5stats/internal/logging"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the Flusher of the underlying
// writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// NewRequestLoggingMiddleware logs every request once it is served. Handlers
// find a logger carrying the method and path in the request context.
func NewRequestLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With(slog.String("method", r.Method), slog.String("path", r.URL.Path))
			r = r.WithContext(logging.WithLogger(r.Context(), reqLogger))

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			logging.LogHTTPRequest(logger,
				r.Method,
				r.URL.Path,
				wrapped.statusCode,
				float64(time.Since(start).Nanoseconds())/1e6,
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.String("component", "http_server"))
		})
	}
}

type rejectFunc func(w http.ResponseWriter, r *http.Request, status int, text string)

// rateLimiter keeps one token bucket per client address. Idle buckets
// expire.
type rateLimiter struct {
	limiters  *cache.Cache
	rateLimit rate.Limit
	burstSize int
	reject    rejectFunc
}

// NewRateLimitMiddleware allows requestsPerInterval requests per interval
// and client. A non-positive requestsPerInterval disables limiting.
func NewRateLimitMiddleware(requestsPerInterval int, interval time.Duration, reject rejectFunc) func(http.Handler) http.Handler {
	if requestsPerInterval <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	rl := &rateLimiter{
		limiters:  cache.New(10*time.Minute, 5*time.Minute),
		rateLimit: rate.Every(interval / time.Duration(requestsPerInterval)),
		burstSize: requestsPerInterval,
		reject:    reject,
	}
	return rl.handler
}

func (rl *rateLimiter) limiter(client string) *rate.Limiter {
	if v, ok := rl.limiters.Get(client); ok {
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(rl.rateLimit, rl.burstSize)
	// Add fails when another request created the limiter first.
	if err := rl.limiters.Add(client, l, cache.DefaultExpiration); err != nil {
		if v, ok := rl.limiters.Get(client); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}

func (rl *rateLimiter) handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			client = r.RemoteAddr
		}
		if !rl.limiter(client).Allow() {
			retryAfter := time.Duration(float64(time.Second) / float64(rl.rateLimit))
			w.Header().Set("Retry-After", strconv.Itoa(max(1, int(retryAfter.Seconds()))))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
			w.Header().Set("X-RateLimit-Remaining", "0")
			rl.reject(w, r, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CompressionConfig holds configuration options for response compression.
type CompressionConfig struct {
	// MinSize is the minimum response size in bytes to compress.
	MinSize int
	// Level is the gzip compression level, 1-9.
	Level int
}

// DefaultCompressionConfig compresses responses of 1KB or more at level 6.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		Level:   6,
	}
}

// NewCompressionMiddleware gzips responses for clients that accept it.
func NewCompressionMiddleware(config CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapper, err := gzhttp.NewWrapper(
			gzhttp.MinSize(config.MinSize),
			gzhttp.CompressionLevel(config.Level),
		)
		if err != nil {
			return gzhttp.GzipHandler(next)
		}
		return wrapper(next)
	}
}
