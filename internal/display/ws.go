package display

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // displays are served from other origins (file://, kiosks)
	},
}

// WSHandler upgrades the request and keeps the display registered until it disconnects.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		// welcome before Add so it never races a broadcast on the same conn
		hub.welcome(ws)
		hub.Add(ws)
		hub.logger.Info("display connected", zap.String("remote", ws.RemoteAddr().String()))

		// displays never send anything we act on
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.Remove(ws)
		hub.logger.Info("display disconnected", zap.String("remote", ws.RemoteAddr().String()))
	}
}
