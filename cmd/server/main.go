// @title Todo Service API
// @version 1.0
// @description 待办事项 REST API 服务
// @host localhost:5000
// @BasePath /api
// @schemes http
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/todostudy/backend/internal/infrastructure/config"
	applog "github.com/todostudy/backend/internal/infrastructure/log"
	"github.com/todostudy/backend/internal/infrastructure/singleton"
	"github.com/todostudy/backend/internal/wire"
)

func main() {
	// 初始化日志系统
	applog.Init(nil)

	// 加载配置获取端口
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	port := cfg.Server.HTTPPort

	// 单例锁检查：尝试获取端口锁
	listener, err := singleton.CheckAndLock(port)
	if err != nil {
		log.Fatalf("单例锁检查失败: %v", err)
	}
	if listener == nil {
		// 已有实例运行，直接退出
		log.Println("检测到已有实例在运行，当前进程退出")
		os.Exit(0)
	}

	// Wire 自动生成的初始化函数
	app, cleanup, err := wire.InitializeAll()
	if err != nil {
		_ = listener.Close()
		applog.GetLogger().Error("Failed to initialize application",
			"error", err,
		)
		os.Exit(1)
	}
	defer cleanup()

	// 直接复用单例锁持有的端口，避免释放后被抢占
	app.UseListener(listener)

	if err := app.Start(); err != nil {
		applog.GetLogger().Error("Failed to start application",
			"error", err,
		)
		cleanup()
		os.Exit(1)
	}

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		applog.GetLogger().Info("Shutting down application...", "signal", sig.String())
	case err := <-app.Errors():
		applog.GetLogger().Error("HTTP server failed, shutting down", "error", err)
	}

	if err := app.Stop(); err != nil {
		applog.GetLogger().Error("Error during application shutdown",
			"error", err,
		)
	}
	applog.GetLogger().Info("Application stopped")
}
