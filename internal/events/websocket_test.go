package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	return websocket.DefaultDialer.Dial(url, header)
}

func TestWebSocketHandler_StreamsEvents(t *testing.T) {
	hub := NewHub(4)
	srv := httptest.NewServer(NewWebSocketHandler(hub, nil))
	defer srv.Close()

	conn, _, err := dial(t, srv, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish(New(BrewLogged, "brew-42"))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var e Event
	require.NoError(t, conn.ReadJSON(&e))
	assert.Equal(t, BrewLogged, e.Type)
	assert.Equal(t, "brew-42", e.ID)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
	hub.Close()
}

func TestWebSocketHandler_HubCloseDisconnects(t *testing.T) {
	hub := NewHub(4)
	srv := httptest.NewServer(NewWebSocketHandler(hub, nil))
	defer srv.Close()

	conn, _, err := dial(t, srv, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	hub.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)
}

func TestWebSocketHandler_RejectsOrigin(t *testing.T) {
	hub := NewHub(4)
	defer hub.Close()
	srv := httptest.NewServer(NewWebSocketHandler(hub, func(r *http.Request) bool {
		return r.Header.Get("Origin") == "https://journal.example"
	}))
	defer srv.Close()

	_, resp, err := dial(t, srv, http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, hub.Subscribers())
}
