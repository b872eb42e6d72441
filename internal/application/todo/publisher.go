package todo

import "github.com/todostudy/backend/internal/domain/todo"

// EventPublisher 变更事件发布接口（定义在 application 层）
type EventPublisher interface {
	Publish(event *todo.Event) error
}

// noopPublisher 未配置推送时使用
type noopPublisher struct{}

func (noopPublisher) Publish(*todo.Event) error { return nil }
