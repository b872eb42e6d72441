package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appTodo "github.com/todostudy/backend/internal/application/todo"
	"github.com/todostudy/backend/internal/domain/todo"
	"github.com/todostudy/backend/internal/infrastructure/log"
)

// ServerName MCP 服务名
const ServerName = "todo-service"

// ServerVersion MCP 服务版本
const ServerVersion = "0.1.0"

// TodoService 待办用例接口
type TodoService interface {
	List(ctx context.Context) ([]*todo.Todo, error)
	Get(ctx context.Context, id int64) (*todo.Todo, error)
	Create(ctx context.Context, in appTodo.CreateInput) (*todo.Todo, error)
	Update(ctx context.Context, id int64, in appTodo.UpdateInput) (*todo.Todo, error)
	Delete(ctx context.Context, id int64) (*todo.Todo, error)
}

// MCPServer MCP 服务器
type MCPServer struct {
	server  *mcp.Server
	handler http.Handler
	service TodoService
	logger  *slog.Logger
}

// NewServer 创建 MCP 服务器
func NewServer(service TodoService) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil, // 使用默认能力
	)

	mcpServer := &MCPServer{
		server:  server,
		service: service,
		logger:  log.NewModuleLogger("mcp", "server"),
	}
	mcpServer.registerTodoTools()

	// 每个请求返回同一个服务器实例
	mcpServer.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			return server
		},
		nil,
	)

	return mcpServer
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}

// Server 底层 MCP 服务器
func (s *MCPServer) Server() *mcp.Server {
	return s.server
}

// Start 启动服务器
// SSE 模式下由 HTTP 服务器统一提供服务，这里只记录就绪状态
func (s *MCPServer) Start() error {
	s.logger.Info("MCP server ready", "transport", "sse", "path", "/mcp/sse")
	return nil
}

// Stop 停止服务器
func (s *MCPServer) Stop() error {
	return nil
}
