package infrastructure

import (
	"github.com/google/wire"

	"github.com/todostudy/backend/internal/infrastructure/config"
	"github.com/todostudy/backend/internal/infrastructure/discovery"
	"github.com/todostudy/backend/internal/infrastructure/notification"
	"github.com/todostudy/backend/internal/infrastructure/storage"
	"github.com/todostudy/backend/internal/infrastructure/websocket"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	storage.ProviderSet,
	websocket.ProviderSet,
	notification.ProviderSet,
	discovery.ProviderSet,
)
