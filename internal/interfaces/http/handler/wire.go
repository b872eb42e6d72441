package handler

import (
	"github.com/google/wire"

	appTodo "github.com/todostudy/backend/internal/application/todo"
)

// ProviderSet Handler ProviderSet
var ProviderSet = wire.NewSet(
	NewTodoHandler,
	NewEventsHandler,
	wire.Bind(new(TodoService), new(*appTodo.Manager)),
)
