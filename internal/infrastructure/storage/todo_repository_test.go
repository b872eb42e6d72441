package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todostudy/backend/internal/domain/todo"
	"github.com/todostudy/backend/internal/infrastructure/config"
)

// setupTestDB 创建临时测试数据库
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, InitSchema(context.Background(), db))

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// fixedClock 可控时钟
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*TodoStore, *fixedClock) {
	t.Helper()
	clock := &fixedClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	store := NewTodoStore(setupTestDB(t), &config.DatabaseConfig{LogQueries: true})
	store.SetClock(clock.Now)
	return store, clock
}

func insert(t *testing.T, store *TodoStore, item *todo.Todo) {
	t.Helper()
	err := store.WithinTx(context.Background(), func(repo todo.Repository) error {
		return repo.Insert(context.Background(), item)
	})
	require.NoError(t, err)
}

func TestTodoStore_Insert(t *testing.T) {
	store, clock := newTestStore(t)

	item := &todo.Todo{Title: "buy milk"}
	insert(t, store, item)

	assert.Positive(t, item.ID, "插入后应回填自增 ID")
	assert.Equal(t, clock.Now(), item.CreatedAt)
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)

	found, err := store.FindByID(context.Background(), item.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "buy milk", found.Title)
	assert.False(t, found.Completed)
	assert.Equal(t, time.UTC, found.CreatedAt.Location())
	assert.True(t, found.CreatedAt.Equal(item.CreatedAt))
}

func TestTodoStore_FindByID_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	found, err := store.FindByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestTodoStore_FindAll_InsertionOrder(t *testing.T) {
	store, clock := newTestStore(t)

	for _, title := range []string{"待办1", "待办2", "待办3"} {
		insert(t, store, &todo.Todo{Title: title})
		clock.Advance(time.Second)
	}

	all, err := store.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "待办1", all[0].Title)
	assert.Equal(t, "待办2", all[1].Title)
	assert.Equal(t, "待办3", all[2].Title)
}

func TestTodoStore_FindAll_Empty(t *testing.T) {
	store, _ := newTestStore(t)

	all, err := store.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestTodoStore_Update_RefreshesUpdatedAt(t *testing.T) {
	store, clock := newTestStore(t)

	item := &todo.Todo{Title: "write report"}
	insert(t, store, item)
	createdAt := item.CreatedAt

	clock.Advance(5 * time.Second)
	item.Completed = true
	err := store.WithinTx(context.Background(), func(repo todo.Repository) error {
		return repo.Update(context.Background(), item)
	})
	require.NoError(t, err)

	found, err := store.FindByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, found.Completed)
	assert.Equal(t, "write report", found.Title)
	assert.True(t, found.CreatedAt.Equal(createdAt), "created_at 不应被修改")
	assert.True(t, found.UpdatedAt.Equal(clock.Now()))
	assert.True(t, found.UpdatedAt.Equal(item.UpdatedAt))
}

func TestTodoStore_Update_StrictlyIncreasesWithoutClockAdvance(t *testing.T) {
	store, _ := newTestStore(t)

	item := &todo.Todo{Title: "same instant"}
	insert(t, store, item)
	before := item.UpdatedAt

	// 时钟未前进，updated_at 仍需严格递增
	for i := 0; i < 3; i++ {
		item.Completed = !item.Completed
		err := store.WithinTx(context.Background(), func(repo todo.Repository) error {
			return repo.Update(context.Background(), item)
		})
		require.NoError(t, err)
		assert.True(t, item.UpdatedAt.After(before))
		before = item.UpdatedAt
	}
}

func TestTodoStore_Update_Missing(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.WithinTx(context.Background(), func(repo todo.Repository) error {
		return repo.Update(context.Background(), &todo.Todo{ID: 42, Title: "ghost"})
	})
	assert.ErrorIs(t, err, todo.ErrNotFound)
}

func TestTodoStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	item := &todo.Todo{Title: "将被删除"}
	insert(t, store, item)

	var deleted bool
	err := store.WithinTx(context.Background(), func(repo todo.Repository) error {
		var err error
		deleted, err = repo.Delete(context.Background(), item.ID)
		return err
	})
	require.NoError(t, err)
	assert.True(t, deleted)

	found, err := store.FindByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// 再次删除不影响任何行
	err = store.WithinTx(context.Background(), func(repo todo.Repository) error {
		var err error
		deleted, err = repo.Delete(context.Background(), item.ID)
		return err
	})
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTodoStore_IDsNotReused(t *testing.T) {
	store, _ := newTestStore(t)

	first := &todo.Todo{Title: "first"}
	second := &todo.Todo{Title: "second"}
	insert(t, store, first)
	insert(t, store, second)

	err := store.WithinTx(context.Background(), func(repo todo.Repository) error {
		_, err := repo.Delete(context.Background(), second.ID)
		return err
	})
	require.NoError(t, err)

	third := &todo.Todo{Title: "third"}
	insert(t, store, third)
	assert.Greater(t, third.ID, second.ID)
}

func TestTodoStore_WithinTx_RollbackOnError(t *testing.T) {
	store, _ := newTestStore(t)
	insert(t, store, &todo.Todo{Title: "kept"})

	boom := errors.New("boom")
	err := store.WithinTx(context.Background(), func(repo todo.Repository) error {
		if err := repo.Insert(context.Background(), &todo.Todo{Title: "rolled back"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := store.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1, "回滚后不应留下记录")
	assert.Equal(t, "kept", all[0].Title)
}

func TestTodoStore_TitleConstraint(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.WithinTx(context.Background(), func(repo todo.Repository) error {
		return repo.Insert(context.Background(), &todo.Todo{Title: ""})
	})
	assert.Error(t, err, "存储层约束拒绝空标题")

	all, err := store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
