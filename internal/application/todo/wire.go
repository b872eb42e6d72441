package todo

import "github.com/google/wire"

// ProviderSet 待办应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewManager,
	// 注意：EventPublisher 接口绑定在顶层 wire.go 中处理
)
