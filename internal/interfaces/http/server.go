package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/todostudy/backend/internal/infrastructure/config"
	"github.com/todostudy/backend/internal/infrastructure/log"
	"github.com/todostudy/backend/internal/interfaces/http/handler"
	"github.com/todostudy/backend/internal/interfaces/http/middleware"
	"github.com/todostudy/backend/internal/interfaces/mcp"

	_ "github.com/todostudy/backend/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	logger   *slog.Logger

	mu     sync.Mutex
	server *http.Server
}

// NewServer 创建 HTTP 服务器
func NewServer(
	cfg *config.ServerConfig,
	todoHandler *handler.TodoHandler,
	eventsHandler *handler.EventsHandler,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	logger := log.NewModuleLogger("http", "server")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(log.NewModuleLogger("http", "access")),
		middleware.EnsureUTF8Body(),
	)

	// 注册路由
	todos := router.Group("/api/todos")
	{
		todos.GET("", todoHandler.List)
		todos.POST("", todoHandler.Create)
		todos.GET("/events", eventsHandler.Subscribe)
		todos.GET("/:id", todoHandler.Get)
		todos.PUT("/:id", todoHandler.Update)
		todos.DELETE("/:id", todoHandler.Delete)
	}

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	httpPort := config.DefaultHTTPPort
	if cfg != nil && cfg.HTTPPort != "" {
		httpPort = cfg.HTTPPort
	}

	return &HTTPServer{
		router:   router,
		httpPort: httpPort,
		logger:   logger,
	}
}

// Handler 返回路由（测试使用）
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Addr 监听地址
func (s *HTTPServer) Addr() string {
	return s.httpPort
}

// Start 启动服务器，阻塞直到关闭
func (s *HTTPServer) Start() error {
	ln, err := net.Listen("tcp", s.httpPort)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve 在给定 listener 上提供服务
func (s *HTTPServer) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.logger.Info("HTTP server starting",
		"addr", ln.Addr().String(),
	)

	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
