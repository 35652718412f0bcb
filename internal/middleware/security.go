package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tangled.org/arabica.social/brewjournal/internal/metrics"
)

// MaxBodySize bounds every request body. Bean and preset payloads are a few
// hundred bytes; preset imports are the largest thing the API accepts.
const MaxBodySize = 1 << 20

// SecurityHeadersMiddleware sets the response headers for a JSON API. Nothing
// served here is meant to be framed or to execute script.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		if r.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware lets the configured front-end origins call the API from a browser.
// Preflight requests from an allowed origin are answered directly.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")
			if !allowed[origin] {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type visitor struct {
	count       int
	windowStart time.Time
}

// RateLimiter is a fixed-window request counter keyed by client IP.
type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	rate        int
	window      time.Duration
	cleanup     time.Duration
	lastCleanup time.Time
}

// NewRateLimiter allows rate requests per window for each key.
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		cleanup:  2 * window,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if rl.cleanup > 0 && now.Sub(rl.lastCleanup) > rl.cleanup {
		for k, v := range rl.visitors {
			if now.Sub(v.windowStart) > rl.window {
				delete(rl.visitors, k)
			}
		}
		rl.lastCleanup = now
	}

	v, ok := rl.visitors[key]
	if !ok || now.Sub(v.windowStart) > rl.window {
		rl.visitors[key] = &visitor{count: 1, windowStart: now}
		return true
	}
	if v.count >= rl.rate {
		return false
	}
	v.count++
	return true
}

// RetryAfter is the number of seconds a limited client should wait.
func (rl *RateLimiter) RetryAfter() int {
	secs := int(rl.window / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// RateLimitConfig holds one limiter per class of endpoint
type RateLimitConfig struct {
	// AutofillLimiter guards the lookup endpoint, which calls a paid external API
	AutofillLimiter *RateLimiter
	APILimiter      *RateLimiter
	GlobalLimiter   *RateLimiter
}

// NewDefaultRateLimitConfig returns the limits used in production.
func NewDefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		AutofillLimiter: NewRateLimiter(10, time.Minute),
		APILimiter:      NewRateLimiter(120, time.Minute),
		GlobalLimiter:   NewRateLimiter(300, time.Minute),
	}
}

func (c *RateLimitConfig) limiterFor(path string) (string, *RateLimiter) {
	switch {
	case path == "/api/autofill":
		return "autofill", c.AutofillLimiter
	case strings.HasPrefix(path, "/api/") || path == "/exec":
		return "api", c.APILimiter
	default:
		return "global", c.GlobalLimiter
	}
}

// RateLimitMiddleware rejects clients that exceed their limiter with 429.
func RateLimitMiddleware(config *RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, limiter := config.limiterFor(r.URL.Path)
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := GetClientIP(r)
			if !limiter.Allow(ip) {
				metrics.RateLimitedTotal.WithLabelValues(name).Inc()
				log.Warn().
					Str("client_ip", ip).
					Str("path", r.URL.Path).
					Str("limiter", name).
					Msg("Rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(limiter.RetryAfter()))
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LimitBodyMiddleware caps request bodies at MaxBodySize.
func LimitBodyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
		}
		next.ServeHTTP(w, r)
	})
}
