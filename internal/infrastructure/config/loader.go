package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigFilePath 返回配置文件路径：TODO_CONFIG 或 <数据目录>/config.yaml
func ConfigFilePath() string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path
	}
	return filepath.Join(GetDataDir(), DefaultConfigFileName)
}

// Load 加载配置：默认值 -> 配置文件 -> 环境变量
// 配置文件不存在时不报错
func Load() (*Config, error) {
	return LoadFile(ConfigFilePath())
}

// LoadFile 从指定文件加载配置
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()
	cfg.path = path

	if err := decodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// ProvideConfig wire 使用的配置提供者
func ProvideConfig() (*Config, error) {
	return Load()
}

// decodeFile 按扩展名选择 YAML 或 TOML 解码
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse toml config %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse yaml config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", path)
	}
	return nil
}
