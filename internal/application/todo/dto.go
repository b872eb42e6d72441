package todo

import (
	"time"

	"github.com/todostudy/backend/internal/domain/todo"
)

// CreateInput 创建待办输入
type CreateInput struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// UpdateInput 更新待办输入，nil 字段保持不变
type UpdateInput struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// IsEmpty 是否未携带任何字段
func (in UpdateInput) IsEmpty() bool {
	return in.Title == nil && in.Completed == nil
}

// TodoDTO 待办响应
type TodoDTO struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"` // ISO-8601，UTC
	UpdatedAt string `json:"updated_at"` // ISO-8601，UTC
}

// EventDTO 变更事件消息
type EventDTO struct {
	Type       string   `json:"type"`
	TodoID     int64    `json:"todo_id"`
	Data       *TodoDTO `json:"data,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}

// ToDTO 将领域模型转换为 DTO
func ToDTO(item *todo.Todo) *TodoDTO {
	return &TodoDTO{
		ID:        item.ID,
		Title:     item.Title,
		Completed: item.Completed,
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// ToDTOs 批量转换，空列表返回非 nil 切片
func ToDTOs(items []*todo.Todo) []*TodoDTO {
	dtos := make([]*TodoDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ToDTO(item))
	}
	return dtos
}

// ToEventDTO 转换变更事件
func ToEventDTO(event *todo.Event) *EventDTO {
	dto := &EventDTO{
		Type:       string(event.Type),
		TodoID:     event.TodoID,
		OccurredAt: event.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
	if event.Todo != nil {
		dto.Data = ToDTO(event.Todo)
	}
	return dto
}
