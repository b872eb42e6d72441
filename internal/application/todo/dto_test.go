package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/todostudy/backend/internal/domain/todo"
)

func TestToDTO_FormatsUTC(t *testing.T) {
	local := time.FixedZone("KST", 9*60*60)
	item := &todo.Todo{
		ID:        3,
		Title:     "study",
		CreatedAt: time.Date(2026, 3, 4, 14, 0, 0, 500000000, local),
		UpdatedAt: time.Date(2026, 3, 4, 14, 0, 1, 0, local),
	}

	dto := ToDTO(item)
	assert.Equal(t, int64(3), dto.ID)
	assert.Equal(t, "2026-03-04T05:00:00.5Z", dto.CreatedAt)
	assert.Equal(t, "2026-03-04T05:00:01Z", dto.UpdatedAt)
}

func TestToDTOs_EmptyIsNotNil(t *testing.T) {
	dtos := ToDTOs(nil)
	assert.NotNil(t, dtos)
	assert.Empty(t, dtos)
}

func TestToEventDTO(t *testing.T) {
	event := todo.NewEvent(todo.EventDeleted, &todo.Todo{ID: 9, Title: "gone"})

	dto := ToEventDTO(event)
	assert.Equal(t, "todo.deleted", dto.Type)
	assert.Equal(t, int64(9), dto.TodoID)
	assert.Equal(t, "gone", dto.Data.Title)
	assert.NotEmpty(t, dto.OccurredAt)
}

func TestUpdateInput_IsEmpty(t *testing.T) {
	assert.True(t, UpdateInput{}.IsEmpty())
	title := "x"
	assert.False(t, UpdateInput{Title: &title}.IsEmpty())
}
