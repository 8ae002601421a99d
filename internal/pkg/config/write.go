package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

// DefaultConfigPath 默认配置文件路径（可执行文件旁的 config/config.yaml）
func DefaultConfigPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("获取可执行文件路径失败: %w", err)
	}
	exeDir := filepath.Dir(exe)
	return filepath.Join(exeDir, "config", "config.yaml"), nil
}

// Default 返回内置默认配置
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return &Config{}
	}
	return &cfg
}

// WriteFile 将配置写回 YAML 文件
func WriteFile(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("cfg 不能为空")
	}
	if path == "" {
		return fmt.Errorf("path 不能为空")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	payload := map[string]any{
		"app": map[string]any{
			"name":      cfg.App.Name,
			"version":   cfg.App.Version,
			"log_level": cfg.App.LogLevel,
		},
		"server": map[string]any{
			"listen_addr": cfg.Server.ListenAddr,
			"upload_dir":  cfg.Server.UploadDir,
		},
		"storage": map[string]any{
			"db_path": cfg.Storage.DBPath,
		},
		"recommender": map[string]any{
			"base_url":    cfg.Recommender.BaseURL,
			"timeout_sec": cfg.Recommender.TimeoutSec,
			"over_fetch":  cfg.Recommender.OverFetch,
		},
		"auth": map[string]any{
			"bcrypt_cost": cfg.Auth.BcryptCost,
		},
	}

	b, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
