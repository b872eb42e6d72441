package todo

import "context"

// Repository 待办事项仓储接口
type Repository interface {
	// FindAll 获取所有待办事项（按 ID 升序）
	FindAll(ctx context.Context) ([]*Todo, error)

	// FindByID 根据 ID 查找待办事项，不存在时返回 nil, nil
	FindByID(ctx context.Context, id int64) (*Todo, error)

	// Insert 插入新待办，回填 ID 与时间戳
	Insert(ctx context.Context, item *Todo) error

	// Update 更新标题与完成状态，回填 UpdatedAt
	Update(ctx context.Context, item *Todo) error

	// Delete 删除待办，返回是否删除了记录
	Delete(ctx context.Context, id int64) (bool, error)
}

// Store 带事务边界的仓储
// 读操作直接使用 Store 自身，写操作必须在 WithinTx 中完成
type Store interface {
	Repository

	// WithinTx 在单个事务中执行 fn：fn 返回 nil 时提交，否则回滚
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
}
