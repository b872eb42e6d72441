package todo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/todostudy/backend/internal/domain/todo"
	"github.com/todostudy/backend/internal/infrastructure/log"
)

// Manager 待办资源管理器（用例编排）
// 每个写操作都在单个事务中完成，提交成功后再发布变更事件
type Manager struct {
	store     todo.Store
	publisher EventPublisher
	logger    *slog.Logger
}

// NewManager 创建待办资源管理器
func NewManager(store todo.Store, publisher EventPublisher) *Manager {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &Manager{
		store:     store,
		publisher: publisher,
		logger:    log.NewModuleLogger("application", "todo_manager"),
	}
}

// List 获取所有待办
func (m *Manager) List(ctx context.Context) ([]*todo.Todo, error) {
	items, err := m.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return items, nil
}

// Get 获取单个待办
func (m *Manager) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	item, err := m.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get todo %d: %w", id, err)
	}
	if item == nil {
		return nil, todo.ErrNotFound
	}
	return item, nil
}

// Create 创建待办，标题校验在访问存储之前完成
func (m *Manager) Create(ctx context.Context, in CreateInput) (*todo.Todo, error) {
	if in.Title == nil {
		return nil, todo.ErrTitleRequired
	}
	if err := todo.ValidateTitle(*in.Title); err != nil {
		return nil, err
	}

	item := &todo.Todo{}
	item.ApplyTitle(*in.Title)
	if in.Completed != nil {
		item.Completed = *in.Completed
	}

	err := m.store.WithinTx(ctx, func(repo todo.Repository) error {
		return repo.Insert(ctx, item)
	})
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	ctx = log.WithTodoID(ctx, item.ID)
	m.logger.InfoContext(ctx, "Todo created")
	m.publish(ctx, todo.NewEvent(todo.EventCreated, item))
	return item, nil
}

// Update 部分更新：只覆盖请求中出现的字段
func (m *Manager) Update(ctx context.Context, id int64, in UpdateInput) (*todo.Todo, error) {
	ctx = log.WithTodoID(ctx, id)
	if in.Title != nil {
		if err := todo.ValidateTitle(*in.Title); err != nil {
			return nil, err
		}
	}

	var updated *todo.Todo
	err := m.store.WithinTx(ctx, func(repo todo.Repository) error {
		item, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return todo.ErrNotFound
		}

		// 没有任何字段时不写库，也不刷新 updated_at
		if in.IsEmpty() {
			updated = item
			return nil
		}

		if in.Title != nil {
			item.ApplyTitle(*in.Title)
		}
		if in.Completed != nil {
			item.Completed = *in.Completed
		}

		if err := repo.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, wrapStoreError("update", id, err)
	}

	if !in.IsEmpty() {
		m.logger.InfoContext(ctx, "Todo updated")
		m.publish(ctx, todo.NewEvent(todo.EventUpdated, updated))
	}
	return updated, nil
}

// Delete 删除待办，返回被删除的记录
func (m *Manager) Delete(ctx context.Context, id int64) (*todo.Todo, error) {
	ctx = log.WithTodoID(ctx, id)
	var deleted *todo.Todo
	err := m.store.WithinTx(ctx, func(repo todo.Repository) error {
		item, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return todo.ErrNotFound
		}

		ok, err := repo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return todo.ErrNotFound
		}
		deleted = item
		return nil
	})
	if err != nil {
		return nil, wrapStoreError("delete", id, err)
	}

	m.logger.InfoContext(ctx, "Todo deleted")
	m.publish(ctx, todo.NewEvent(todo.EventDeleted, deleted))
	return deleted, nil
}

// publish 推送失败不影响已提交的操作
// ctx 需已携带 todo_id
func (m *Manager) publish(ctx context.Context, event *todo.Event) {
	if err := m.publisher.Publish(event); err != nil {
		m.logger.WarnContext(ctx, "Failed to publish todo event",
			"type", event.Type,
			"error", err,
		)
	}
}

// wrapStoreError 领域错误原样返回，其他错误附带操作信息
func wrapStoreError(op string, id int64, err error) error {
	if errors.Is(err, todo.ErrNotFound) {
		return todo.ErrNotFound
	}
	return fmt.Errorf("%s todo %d: %w", op, id, err)
}
