package storage

import (
	"github.com/google/wire"

	"github.com/todostudy/backend/internal/domain/todo"
)

// ProviderSet Storage 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideDB,    // 提供数据库连接
	NewTodoStore, // 待办事项仓储
	wire.Bind(new(todo.Store), new(*TodoStore)),
)
