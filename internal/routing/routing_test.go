package routing

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tangled.org/arabica.social/brewjournal/internal/database"
	"tangled.org/arabica.social/brewjournal/internal/events"
	"tangled.org/arabica.social/brewjournal/internal/handlers"
	"tangled.org/arabica.social/brewjournal/internal/journal"
	"tangled.org/arabica.social/brewjournal/internal/middleware"
)

const trustedOrigin = "https://journal.example"

const beanJSON = `{"roaster":"Onyx","country":"Ethiopia","farm":"Hambela","variety":"Heirloom","process":"Natural","weight":250,"price":22.5,"purchaseDate":"2025-03-01","flavorNotes":["Berry","Floral"]}`

func newRouter(t *testing.T, mutate ...func(*Config)) (http.Handler, *events.Hub) {
	t.Helper()
	hub := events.NewHub(events.DefaultBuffer)
	t.Cleanup(hub.Close)

	store := database.NewRecordStore(database.NewMemoryDocuments())
	svc := journal.NewService(store, journal.WithPublisher(hub))
	cfg := Config{
		Handlers:       handlers.NewHandler(svc),
		Events:         events.NewWebSocketHandler(hub, OriginChecker([]string{trustedOrigin})),
		Logger:         zerolog.Nop(),
		AllowedOrigins: []string{trustedOrigin},
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return SetupRouter(cfg), hub
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSetupRouter_Health(t *testing.T) {
	router, _ := newRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestSetupRouter_Routes(t *testing.T) {
	router, _ := newRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"list beans", http.MethodGet, "/api/beans", http.StatusOK},
		{"unknown bean", http.MethodGet, "/api/beans/nope", http.StatusNotFound},
		{"list brews", http.MethodGet, "/api/brews", http.StatusOK},
		{"list presets", http.MethodGet, "/api/presets", http.StatusOK},
		{"grouped cafe logs", http.MethodGet, "/api/cafe-logs/grouped", http.StatusOK},
		{"unknown cafe log", http.MethodGet, "/api/cafe-logs/nope", http.StatusNotFound},
		{"snapshot", http.MethodGet, "/api/data", http.StatusOK},
		{"stats", http.MethodGet, "/api/stats", http.StatusOK},
		{"options", http.MethodGet, "/api/options", http.StatusOK},
		{"suggestions", http.MethodGet, "/api/suggestions/roasters?q=on", http.StatusOK},
		{"unknown suggestions", http.MethodGet, "/api/suggestions/varieties", http.StatusNotFound},
		{"cost without bean", http.MethodGet, "/api/cost", http.StatusBadRequest},
		{"legacy read", http.MethodGet, "/exec?action=getBeans", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"unknown path", http.MethodGet, "/nowhere", http.StatusNotFound},
		{"wrong method", http.MethodPost, "/api/stats", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestSetupRouter_CrossOriginWrites(t *testing.T) {
	router, _ := newRouter(t)

	t.Run("same origin tooling is allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/beans", strings.NewReader(beanJSON))
		rec := serve(router, req)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("trusted origin is allowed and granted CORS", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/beans", strings.NewReader(beanJSON))
		req.Header.Set("Origin", trustedOrigin)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		rec := serve(router, req)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, trustedOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origins are refused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/beans", strings.NewReader(beanJSON))
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		rec := serve(router, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("cross-origin reads are not blocked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/beans", nil)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		rec := serve(router, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSetupRouter_Gzip(t *testing.T) {
	router, _ := newRouter(t)
	for i := 0; i < 10; i++ {
		rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/beans", strings.NewReader(beanJSON)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/beans", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := serve(router, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestSetupRouter_RateLimit(t *testing.T) {
	router, _ := newRouter(t, func(c *Config) {
		c.RateLimits = &middleware.RateLimitConfig{
			AutofillLimiter: middleware.NewRateLimiter(1, time.Minute),
			APILimiter:      middleware.NewRateLimiter(2, time.Minute),
			GlobalLimiter:   middleware.NewRateLimiter(100, time.Minute),
		}
	})

	for i := 0; i < 2; i++ {
		rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/beans", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/beans", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "global bucket is separate")
}

func TestSetupRouter_EventStream(t *testing.T) {
	router, hub := newRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	resp, err := http.Post(srv.URL+"/api/beans", "application/json", strings.NewReader(beanJSON))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev events.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, events.BeanCreated, ev.Type)
	assert.NotEmpty(t, ev.ID)
}

func TestOriginChecker(t *testing.T) {
	check := OriginChecker([]string{trustedOrigin + "/"})

	tests := []struct {
		name   string
		origin string
		host   string
		want   bool
	}{
		{"no origin", "", "localhost:18910", true},
		{"configured origin", trustedOrigin, "api.journal.example", true},
		{"same host", "http://localhost:18910", "localhost:18910", true},
		{"foreign origin", "https://evil.example", "localhost:18910", false},
		{"garbage origin", "://", "localhost:18910", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
			req.Host = tt.host
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, check(req))
		})
	}
}
