package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/todostudy/backend/internal/domain/todo"
	"github.com/todostudy/backend/internal/infrastructure/config"
	"github.com/todostudy/backend/internal/infrastructure/log"
)

// TodoStore 待办事项 SQLite 仓储实现
// 读操作直接走连接池，写操作通过 WithinTx 绑定到事务
type TodoStore struct {
	*todoRepository
	db *sql.DB
}

// NewTodoStore 创建待办事项仓储实例
func NewTodoStore(db *sql.DB, cfg *config.DatabaseConfig) *TodoStore {
	repo := &todoRepository{
		q:      db,
		now:    time.Now,
		logger: log.NewModuleLogger("storage", "todo_repository"),
	}
	if cfg != nil {
		repo.logQueries = cfg.LogQueries
	}
	return &TodoStore{todoRepository: repo, db: db}
}

// SetClock 替换时钟（测试使用）
func (s *TodoStore) SetClock(now func() time.Time) {
	s.now = now
}

// WithinTx 在单个事务中执行 fn
func (s *TodoStore) WithinTx(ctx context.Context, fn func(repo todo.Repository) error) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepo := *s.todoRepository
		txRepo.q = tx
		return fn(&txRepo)
	})
}

// todoRepository 绑定到连接或事务的仓储
type todoRepository struct {
	q          querier
	now        func() time.Time
	logQueries bool
	logger     *slog.Logger
}

const selectTodoColumns = `SELECT id, title, completed, created_at, updated_at FROM todos`

// FindAll 获取所有待办事项（按插入顺序）
func (r *todoRepository) FindAll(ctx context.Context) ([]*todo.Todo, error) {
	query := selectTodoColumns + ` ORDER BY id ASC`
	r.logQuery(ctx, query)

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	items := make([]*todo.Todo, 0)
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return items, nil
}

// FindByID 根据 ID 查找待办事项
func (r *todoRepository) FindByID(ctx context.Context, id int64) (*todo.Todo, error) {
	query := selectTodoColumns + ` WHERE id = ?`
	r.logQuery(ctx, query, id)

	item, err := scanTodo(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query todo: %w", err)
	}
	return item, nil
}

// Insert 插入待办
// 时间戳策略：插入时 created_at = updated_at = now
func (r *todoRepository) Insert(ctx context.Context, item *todo.Todo) error {
	now := r.timestamp()

	query := `INSERT INTO todos (title, completed, created_at, updated_at) VALUES (?, ?, ?, ?)`
	r.logQuery(ctx, query, item.Title, item.Completed)

	result, err := r.q.ExecContext(ctx, query,
		item.Title,
		boolToInt(item.Completed),
		now.UnixMicro(),
		now.UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted todo id: %w", err)
	}

	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// Update 更新标题与完成状态
// 时间戳策略：updated_at = max(now, 原值 + 1µs)，保证严格递增
func (r *todoRepository) Update(ctx context.Context, item *todo.Todo) error {
	now := r.timestamp()

	query := `
		UPDATE todos
		SET title = ?, completed = ?, updated_at = MAX(?, updated_at + 1)
		WHERE id = ?`
	r.logQuery(ctx, query, item.Title, item.Completed, item.ID)

	result, err := r.q.ExecContext(ctx, query,
		item.Title,
		boolToInt(item.Completed),
		now.UnixMicro(),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return todo.ErrNotFound
	}

	var updatedAt int64
	if err := r.q.QueryRowContext(ctx, `SELECT updated_at FROM todos WHERE id = ?`, item.ID).Scan(&updatedAt); err != nil {
		return fmt.Errorf("failed to read updated_at: %w", err)
	}
	item.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return nil
}

// Delete 删除待办
func (r *todoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM todos WHERE id = ?`
	r.logQuery(ctx, query, id)

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// timestamp 当前 UTC 时间，精度与存储一致（微秒）
func (r *todoRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func (r *todoRepository) logQuery(ctx context.Context, query string, args ...any) {
	if !r.logQueries {
		return
	}
	r.logger.DebugContext(ctx, "SQL", "query", query, "args", args)
}

// rowScanner *sql.Row 与 *sql.Rows 的公共接口
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*todo.Todo, error) {
	var item todo.Todo
	var completed int
	var createdAt, updatedAt int64

	if err := row.Scan(
		&item.ID,
		&item.Title,
		&completed,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	item.Completed = completed == 1
	item.CreatedAt = time.UnixMicro(createdAt).UTC()
	item.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return &item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// 编译时检查接口实现
var (
	_ todo.Store      = (*TodoStore)(nil)
	_ todo.Repository = (*todoRepository)(nil)
)
