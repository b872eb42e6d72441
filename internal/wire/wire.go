//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"github.com/todostudy/backend/internal/application"
	appTodo "github.com/todostudy/backend/internal/application/todo"
	"github.com/todostudy/backend/internal/infrastructure"
	infraNotification "github.com/todostudy/backend/internal/infrastructure/notification"
	"github.com/todostudy/backend/internal/interfaces"
)

// InitializeAll 初始化所有服务（HTTP + MCP）
func InitializeAll() (*App, func(), error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		application.ProviderSet,    // 应用层
		interfaces.ProviderSet,     // 接口层
		// 接口绑定：application.EventPublisher -> infrastructure.WebSocketPublisher
		wire.Bind(
			new(appTodo.EventPublisher),
			new(*infraNotification.WebSocketPublisher),
		),
		NewApp, // 组合所有服务的应用结构
	)
	return nil, nil, nil
}
