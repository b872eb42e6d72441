package wire

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/todostudy/backend/internal/infrastructure/config"
	"github.com/todostudy/backend/internal/infrastructure/discovery"
	applog "github.com/todostudy/backend/internal/infrastructure/log"
	"github.com/todostudy/backend/internal/infrastructure/websocket"
	"github.com/todostudy/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer   *interfaces.HTTPServer
	MCPServer    *interfaces.MCPServer
	wsHub        *websocket.Hub
	advertiser   *discovery.MDNSAdvertiser
	cfg          *config.Config
	discoveryCfg *config.DiscoveryConfig
	logger       *slog.Logger

	cfgWatcher *config.Watcher
	listener   net.Listener
	errCh      chan error
	stopOnce   sync.Once
}

// NewApp 创建应用实例
func NewApp(
	cfg *config.Config,
	discoveryCfg *config.DiscoveryConfig,
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	wsHub *websocket.Hub,
	advertiser *discovery.MDNSAdvertiser,
) *App {
	return &App{
		HTTPServer:   httpServer,
		MCPServer:    mcpServer,
		wsHub:        wsHub,
		advertiser:   advertiser,
		cfg:          cfg,
		discoveryCfg: discoveryCfg,
		logger:       applog.NewModuleLogger("app", "main"),
		errCh:        make(chan error, 1),
	}
}

// UseListener 使用已持有的 listener（单例锁获取的端口）
func (a *App) UseListener(ln net.Listener) {
	a.listener = ln
}

// Errors HTTP 服务器异常退出时返回错误
func (a *App) Errors() <-chan error {
	return a.errCh
}

// Start 启动所有服务
// 启动失败时已启动的 Hub 会被停止
func (a *App) Start() (err error) {
	a.logger.Info("Starting todo backend application")

	if a.cfg.Log.Level != "" {
		applog.SetLevel(a.cfg.Log.Level)
	}

	// 先启动 Hub，保证第一个请求的变更事件有人接收
	a.wsHub.Start()
	defer func() {
		if err != nil {
			a.wsHub.Stop()
		}
	}()

	if err := a.MCPServer.Start(); err != nil {
		return err
	}

	if a.listener == nil {
		ln, err := net.Listen("tcp", a.HTTPServer.Addr())
		if err != nil {
			return err
		}
		a.listener = ln
	}

	go func() {
		if err := a.HTTPServer.Serve(a.listener); err != nil {
			a.logger.Error("HTTP server stopped unexpectedly", "error", err)
			a.errCh <- err
		}
	}()

	a.startConfigWatcher()
	a.startDiscovery()

	a.logger.Info("Todo backend application started successfully",
		"addr", a.listener.Addr().String(),
	)
	return nil
}

// startConfigWatcher 配置文件变化时热更新日志级别
// 其他配置项需要重启生效
func (a *App) startConfigWatcher() {
	path := a.cfg.Path()
	if path == "" {
		return
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		a.logger.Debug("Config directory not found, hot reload disabled", "path", path)
		return
	}

	watcher, err := config.NewWatcher(path, config.DefaultDebounceDelay, func(cfg *config.Config) {
		if cfg.Log.Level == "" {
			return
		}
		if applog.SetLevel(cfg.Log.Level) {
			a.logger.Info("Log level reloaded", "level", cfg.Log.Level)
		}
	})
	if err != nil {
		a.logger.Warn("Failed to create config watcher", "error", err)
		return
	}
	if err := watcher.Start(); err != nil {
		a.logger.Warn("Failed to start config watcher", "error", err)
		watcher.Stop()
		return
	}
	a.cfgWatcher = watcher
}

// startDiscovery 按配置在局域网广播服务
func (a *App) startDiscovery() {
	if a.discoveryCfg == nil || !a.discoveryCfg.Enabled || a.advertiser == nil {
		return
	}

	info, err := discovery.BuildServiceInfo(a.discoveryCfg, a.listener.Addr().String())
	if err != nil {
		a.logger.Warn("Failed to build mDNS service info", "error", err)
		return
	}
	if err := a.advertiser.Start(info); err != nil {
		a.logger.Warn("Failed to start mDNS advertiser", "error", err)
	}
}

// Stop 停止所有服务
func (a *App) Stop() error {
	var errs []error

	a.stopOnce.Do(func() {
		a.logger.Info("Stopping todo backend application")

		if a.advertiser != nil && a.advertiser.IsRunning() {
			if err := a.advertiser.Stop(); err != nil {
				errs = append(errs, err)
			}
		}

		if a.cfgWatcher != nil {
			a.cfgWatcher.Stop()
		}

		if err := a.HTTPServer.Stop(); err != nil {
			a.logger.Error("Failed to stop HTTP server", "error", err)
			errs = append(errs, err)
		}

		if err := a.MCPServer.Stop(); err != nil {
			errs = append(errs, err)
		}

		a.wsHub.Stop()
		a.logger.Info("Todo backend application stopped")
	})

	return errors.Join(errs...)
}
