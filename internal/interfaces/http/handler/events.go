package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/todostudy/backend/internal/infrastructure/log"
	infraWS "github.com/todostudy/backend/internal/infrastructure/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = (pongWait * 9) / 10
)

// EventsHandler 待办变更推送（WebSocket）
type EventsHandler struct {
	hub      *infraWS.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewEventsHandler 创建变更推送处理器
func NewEventsHandler(hub *infraWS.Hub) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: log.NewModuleLogger("http", "events_handler"),
	}
}

// Subscribe 订阅待办变更
// @Summary 订阅待办变更（WebSocket）
// @Tags 待办
// @Success 101 {object} appTodo.EventDTO
// @Failure 503 {object} response.ErrorResponse
// @Router /todos/events [get]
func (h *EventsHandler) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写回了错误响应
		h.logger.WarnContext(c.Request.Context(), "Failed to upgrade connection", "error", err)
		return
	}

	sub := infraWS.NewConnection()
	if err := h.hub.Register(sub); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	h.logger.DebugContext(c.Request.Context(), "Subscriber connected",
		"remote", c.ClientIP(),
		"subscribers", h.hub.SubscriberCount(),
	)

	go h.writePump(conn, sub)
	h.readPump(conn, sub)
}

// readPump 只处理控制帧，连接断开时注销订阅
func (h *EventsHandler) readPump(conn *websocket.Conn, sub *infraWS.Connection) {
	defer func() {
		h.hub.Unregister(sub)
		_ = conn.Close()
	}()

	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Subscriber read error", "error", err)
			}
			return
		}
	}
}

// writePump 转发 Hub 消息并定时发送 Ping
// sub.Send 被关闭说明 Hub 已移除该订阅
func (h *EventsHandler) writePump(conn *websocket.Conn, sub *infraWS.Connection) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-sub.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Warn("Failed to write event", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
