package display

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"randomframe/internal/selector"
	"randomframe/pkg/models"
)

const writeWait = 2 * time.Second

// Hub fans generated content out to every connected display frame.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	logger  *zap.Logger
	now     func() time.Time
}

type Stats struct {
	Clients int `json:"clients"`
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		logger:  logger,
		now:     time.Now,
	}
}

func (h *Hub) Add(ws *websocket.Conn) {
	h.mu.Lock()
	h.clients[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// BroadcastJSON writes v to every client. Clients that fail the write are dropped.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode broadcast", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for ws := range h.clients {
		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			h.logger.Debug("dropping display", zap.String("remote", ws.RemoteAddr().String()), zap.Error(err))
			_ = ws.Close()
			delete(h.clients, ws)
		}
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Stats() Stats {
	return Stats{Clients: h.Count()}
}

func (h *Hub) RenderSelection(sel models.Selection) {
	h.BroadcastJSON(Event{Type: EventSelection, Selection: &sel, At: h.now()})
}

func (h *Hub) RenderContent(resp models.ContentResponse) {
	h.BroadcastJSON(Event{Type: EventContent, Content: &resp, At: h.now()})
}

func (h *Hub) RenderFolder(st selector.State, eligible []string) {
	h.BroadcastJSON(Event{Type: EventFolder, Folder: st.CurrentFolder, Eligible: eligible, At: h.now()})
}

func (h *Hub) RenderError(folder string, err error) {
	h.BroadcastJSON(Event{Type: EventError, Folder: folder, Error: err.Error(), At: h.now()})
}

func (h *Hub) welcome(ws *websocket.Conn) {
	b, err := json.Marshal(Event{Type: EventWelcome, Clients: h.Count() + 1, At: h.now()})
	if err != nil {
		return
	}
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(websocket.TextMessage, b)
}
