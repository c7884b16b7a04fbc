package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"

	"github.com/dukkan-shop/dukkan-backend/internal/middleware"
	"github.com/dukkan-shop/dukkan-backend/internal/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is enforced on the HTTP layer; the handshake passed it already
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type NotificationController struct {
	hub *websocket.Hub
}

func NewNotificationController(hub *websocket.Hub) *NotificationController {
	return &NotificationController{
		hub: hub,
	}
}

// Subscribe upgrades the request to a websocket and streams dashboard
// notifications until the client disconnects (Admin only).
// GET /api/ws/notifications
func (ctrl *NotificationController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, _ := middleware.GetUserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &websocket.Client{
		Hub:    ctrl.hub,
		Conn:   &websocket.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 64),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
