package notification

import (
	appTodo "github.com/todostudy/backend/internal/application/todo"
	"github.com/todostudy/backend/internal/domain/todo"
	"github.com/todostudy/backend/internal/infrastructure/websocket"
)

// WebSocketPublisher 通过 WebSocket Hub 推送待办变更
type WebSocketPublisher struct {
	hub *websocket.Hub
}

// NewWebSocketPublisher 创建 WebSocket 推送器
func NewWebSocketPublisher(hub *websocket.Hub) *WebSocketPublisher {
	return &WebSocketPublisher{hub: hub}
}

// Publish 广播事件给所有订阅者
func (p *WebSocketPublisher) Publish(event *todo.Event) error {
	return p.hub.Broadcast(appTodo.ToEventDTO(event))
}

// 编译时检查接口实现
var _ appTodo.EventPublisher = (*WebSocketPublisher)(nil)
