package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/todostudy/backend/internal/infrastructure/config"
	"github.com/todostudy/backend/internal/infrastructure/log"
	_ "modernc.org/sqlite"
)

// driverName modernc.org/sqlite 注册的驱动名
const driverName = "sqlite"

// OpenDB 打开数据库连接
// 单个写连接 + WAL，SQLite 文件库不支持并发写入
func OpenDB(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		// 确保目录存在
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// 测试连接
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// InitSchema 初始化表结构
func InitSchema(ctx context.Context, db *sql.DB) error {
	// AUTOINCREMENT 保证删除后 ID 不会被复用
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL CHECK (length(title) BETWEEN 1 AND 200),
		completed INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create todos table: %w", err)
	}

	return nil
}

// ProvideDB 提供数据库连接（wire 使用），返回的 cleanup 负责关闭连接
func ProvideDB(cfg *config.DatabaseConfig) (*sql.DB, func(), error) {
	logger := log.NewModuleLogger("storage", "db")
	dbPath := cfg.DBPath()

	db, err := OpenDB(dbPath)
	if err != nil {
		return nil, nil, err
	}

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, nil, err
	}

	logger.Info("Database ready", "path", dbPath)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database", "error", err)
		}
	}
	return db, cleanup, nil
}
