package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvHTTPPort HTTP 端口环境变量名
	EnvHTTPPort = "TODO_HTTP_PORT"
	// EnvDBPath 数据库路径环境变量名
	EnvDBPath = "TODO_DB_PATH"
	// EnvConfigFile 配置文件路径环境变量名
	EnvConfigFile = "TODO_CONFIG"

	// DefaultHTTPPort 默认 HTTP 端口
	DefaultHTTPPort = ":5000"
	// DefaultDBFileName 默认数据库文件名
	DefaultDBFileName = "todos.db"
	// DefaultConfigFileName 默认配置文件名
	DefaultConfigFileName = "config.yaml"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Discovery DiscoveryConfig `yaml:"discovery" toml:"discovery"`

	// path 加载时使用的配置文件（可能不存在）
	path string
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port" toml:"http_port"` // 固定端口，用于单例锁
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Path SQLite 文件路径，留空表示 <数据目录>/todos.db
	Path string `yaml:"path" toml:"path"`
	// LogQueries 以 debug 级别记录 SQL 语句
	LogQueries bool `yaml:"log_queries" toml:"log_queries"`
}

// LogConfig 日志配置（文件中的值，环境变量仍由 log 包处理）
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// DiscoveryConfig 局域网服务发现配置
type DiscoveryConfig struct {
	Enabled      bool   `yaml:"enabled" toml:"enabled"`
	InstanceName string `yaml:"instance_name" toml:"instance_name"`
}

// NewConfig 创建配置（默认值 + 环境变量覆盖）
func NewConfig() *Config {
	cfg := defaultConfig()
	applyEnv(cfg)
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Discovery: DiscoveryConfig{
			Enabled:      false,
			InstanceName: "todo-service",
		},
	}
}

// applyEnv 环境变量优先级最高
func applyEnv(cfg *Config) {
	if port := os.Getenv(EnvHTTPPort); port != "" {
		cfg.Server.HTTPPort = port
	}
	if path := os.Getenv(EnvDBPath); path != "" {
		cfg.Database.Path = path
	}
}

// Path 返回配置文件路径
func (c *Config) Path() string {
	return c.path
}

// DBPath 返回实际使用的数据库文件路径
func (d *DatabaseConfig) DBPath() string {
	if d.Path != "" {
		return d.Path
	}
	return filepath.Join(GetDataDir(), DefaultDBFileName)
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewDiscoveryConfig 创建服务发现配置
func NewDiscoveryConfig(cfg *Config) *DiscoveryConfig {
	return &cfg.Discovery
}
