package routing

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tangled.org/arabica.social/brewjournal/internal/handlers"
	"tangled.org/arabica.social/brewjournal/internal/metrics"
	"tangled.org/arabica.social/brewjournal/internal/middleware"
	"tangled.org/arabica.social/brewjournal/internal/tracing"
)

// Config holds the configuration needed for setting up routes
type Config struct {
	Handlers *handlers.Handler
	// Events serves the change stream. It is mounted outside compression
	// since websocket connections are hijacked.
	Events http.Handler
	Logger zerolog.Logger
	// AllowedOrigins may call unsafe methods cross-origin and read responses
	AllowedOrigins []string
	// RateLimits defaults to middleware.NewDefaultRateLimitConfig
	RateLimits *middleware.RateLimitConfig
	// Tracing wraps the router in otelhttp
	Tracing bool
}

// SetupRouter creates and configures the HTTP router with all routes and middleware
func SetupRouter(cfg Config) http.Handler {
	h := cfg.Handlers
	mux := http.NewServeMux()

	// Cross-origin writes are refused unless they come from a configured origin
	cop := http.NewCrossOriginProtection()
	for _, origin := range cfg.AllowedOrigins {
		if err := cop.AddTrustedOrigin(origin); err != nil {
			cfg.Logger.Warn().Err(err).Str("origin", origin).Msg("Ignoring invalid trusted origin")
		}
	}
	unsafe := func(fn http.HandlerFunc) http.Handler {
		return cop.Handler(fn)
	}

	mux.HandleFunc("GET /healthz", h.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Beans
	mux.HandleFunc("GET /api/beans", h.HandleBeanList)
	mux.Handle("POST /api/beans", unsafe(h.HandleBeanCreate))
	mux.HandleFunc("GET /api/beans/{id}", h.HandleBeanGet)
	mux.Handle("PUT /api/beans/{id}", unsafe(h.HandleBeanUpdate))
	mux.Handle("DELETE /api/beans/{id}", unsafe(h.HandleBeanDelete))
	mux.Handle("PATCH /api/beans/{id}/status", unsafe(h.HandleBeanStatus))

	// Brews
	mux.HandleFunc("GET /api/brews", h.HandleBrewList)
	mux.Handle("POST /api/brews", unsafe(h.HandleBrewCreate))
	mux.HandleFunc("GET /api/brews/{id}", h.HandleBrewGet)
	mux.Handle("PUT /api/brews/{id}", unsafe(h.HandleBrewUpdate))
	mux.Handle("DELETE /api/brews/{id}", unsafe(h.HandleBrewDelete))

	// Presets
	mux.HandleFunc("GET /api/presets", h.HandlePresetList)
	mux.Handle("POST /api/presets", unsafe(h.HandlePresetCreate))
	mux.Handle("POST /api/presets/import", unsafe(h.HandlePresetImport))
	mux.HandleFunc("GET /api/presets/{id}", h.HandlePresetGet)
	mux.Handle("PUT /api/presets/{id}", unsafe(h.HandlePresetUpdate))
	mux.Handle("DELETE /api/presets/{id}", unsafe(h.HandlePresetDelete))
	mux.HandleFunc("GET /api/presets/{id}/apply", h.HandlePresetApply)

	// Cafe logs
	mux.HandleFunc("GET /api/cafe-logs", h.HandleCafeLogList)
	mux.HandleFunc("GET /api/cafe-logs/grouped", h.HandleCafeLogGrouped)
	mux.Handle("POST /api/cafe-logs", unsafe(h.HandleCafeLogCreate))
	mux.HandleFunc("GET /api/cafe-logs/{id}", h.HandleCafeLogGet)
	mux.Handle("PUT /api/cafe-logs/{id}", unsafe(h.HandleCafeLogUpdate))
	mux.Handle("DELETE /api/cafe-logs/{id}", unsafe(h.HandleCafeLogDelete))

	// Aggregates and helpers
	mux.HandleFunc("GET /api/data", h.HandleData)
	mux.HandleFunc("GET /api/stats", h.HandleStats)
	mux.HandleFunc("GET /api/cost", h.HandleCost)
	mux.HandleFunc("GET /api/options", h.HandleOptions)
	mux.HandleFunc("GET /api/suggestions/{kind}", h.HandleSuggestions)
	mux.Handle("POST /api/autofill", unsafe(h.HandleAutofill))

	// Legacy action endpoint used by the original front-end
	mux.HandleFunc("GET /exec", h.HandleExecGet)
	mux.Handle("POST /exec", unsafe(h.HandleExecPost))

	root := http.NewServeMux()
	if cfg.Events != nil {
		root.Handle("GET /api/events", cfg.Events)
	}
	root.Handle("/", gzhttp.GzipHandler(mux))

	// Apply middleware in order (innermost first, outermost last)
	var handler http.Handler = root

	// 1. Limit request body size (innermost - runs last on request)
	handler = middleware.LimitBodyMiddleware(handler)

	// 2. Apply rate limiting
	rateLimits := cfg.RateLimits
	if rateLimits == nil {
		rateLimits = middleware.NewDefaultRateLimitConfig()
	}
	handler = middleware.RateLimitMiddleware(rateLimits)(handler)

	// 3. Let configured front-ends read responses
	handler = middleware.CORSMiddleware(cfg.AllowedOrigins)(handler)

	// 4. Apply security headers
	handler = middleware.SecurityHeadersMiddleware(handler)

	// 5. Apply logging middleware
	handler = middleware.LoggingMiddleware(cfg.Logger)(handler)

	// 6. Trace every request (outermost)
	if cfg.Tracing {
		handler = otelhttp.NewHandler(handler, tracing.ServiceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + metrics.NormalizePath(r.URL.Path)
			}),
		)
	}

	return handler
}

// OriginChecker returns a websocket origin check accepting same-host requests
// and the given origins.
func OriginChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if allowed[origin] {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}
