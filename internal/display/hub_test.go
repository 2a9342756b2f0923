package display

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"randomframe/internal/selector"
	"randomframe/pkg/models"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zap.NewNop())
	hub.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	r := gin.New()
	r.GET("/ws", WSHandler(hub))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, b, err := ws.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(b, &ev))
	return ev
}

func TestHubWelcomesAndBroadcasts(t *testing.T) {
	hub, url := startHub(t)

	a := dial(t, url)
	assert.Equal(t, EventWelcome, readEvent(t, a).Type)
	b := dial(t, url)
	welcome := readEvent(t, b)
	assert.Equal(t, EventWelcome, welcome.Type)
	assert.Equal(t, 2, welcome.Clients)

	require.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.RenderSelection(models.Selection{Folder: "Lilia", Image: "image1.jpg", ImageURL: "Lilia/image1.jpg", Caption: "Hi"})

	for _, ws := range []*websocket.Conn{a, b} {
		ev := readEvent(t, ws)
		assert.Equal(t, EventSelection, ev.Type)
		require.NotNil(t, ev.Selection)
		assert.Equal(t, "Lilia/image1.jpg", ev.Selection.ImageURL)
		assert.Equal(t, "Hi", ev.Selection.Caption)
	}
}

func TestHubRenderErrorAndFolder(t *testing.T) {
	hub, url := startHub(t)
	ws := dial(t, url)
	readEvent(t, ws)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.RenderFolder(selector.State{CurrentFolder: "Leylah"}, []string{"Leylah", "Lilia"})
	ev := readEvent(t, ws)
	assert.Equal(t, EventFolder, ev.Type)
	assert.Equal(t, "Leylah", ev.Folder)
	assert.Equal(t, []string{"Leylah", "Lilia"}, ev.Eligible)

	hub.RenderError("B", errors.New("No images found in B folder"))
	ev = readEvent(t, ws)
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, "B", ev.Folder)
	assert.Equal(t, "No images found in B folder", ev.Error)
}

func TestHubRemovesDisconnectedDisplays(t *testing.T) {
	hub, url := startHub(t)
	ws := dial(t, url)
	readEvent(t, ws)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ws.Close())
	require.Eventually(t, func() bool { return hub.Stats().Clients == 0 }, 2*time.Second, 10*time.Millisecond)

	// no clients: must not block or panic
	hub.RenderContent(models.ContentResponse{Caption: "x"})
}
