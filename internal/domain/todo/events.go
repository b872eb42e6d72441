package todo

import "time"

// EventType 变更事件类型
type EventType string

const (
	// EventCreated 待办已创建
	EventCreated EventType = "todo.created"
	// EventUpdated 待办已更新
	EventUpdated EventType = "todo.updated"
	// EventDeleted 待办已删除
	EventDeleted EventType = "todo.deleted"
)

// Event 待办变更事件（提交成功后发布）
type Event struct {
	Type       EventType
	TodoID     int64
	Todo       *Todo
	OccurredAt time.Time
}

// NewEvent 创建事件
func NewEvent(eventType EventType, item *Todo) *Event {
	return &Event{
		Type:       eventType,
		TodoID:     item.ID,
		Todo:       item.Clone(),
		OccurredAt: time.Now().UTC(),
	}
}
