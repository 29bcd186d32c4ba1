package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 是 feedparse 的顶层配置。
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Parser ParserConfig `yaml:"parser"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Data   DataConfig   `yaml:"data"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// ParserConfig 解析配置。
type ParserConfig struct {
	// ExtractContent 是否提取 RSS description 与 Atom summary/content，未设置时为 true。
	ExtractContent *bool `yaml:"extract_content"`
}

// ShouldExtractContent 返回是否提取正文。
func (p ParserConfig) ShouldExtractContent() bool {
	return p.ExtractContent == nil || *p.ExtractContent
}

// FetchConfig 抓取配置。
type FetchConfig struct {
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	UserAgent       string `yaml:"user_agent"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
	MaxItems        int    `yaml:"max_items"`     // 每个订阅源缓存的最大条目数
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`
}

// DataConfig 数据存放位置。
type DataConfig struct {
	Dir string `yaml:"dir"`
	// DB 为空时使用 <dir>/feedparse.db
	DB string `yaml:"db"`
}

// Load 读取 YAML 配置文件，支持 ${VAR_NAME} 形式的环境变量展开。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	expanded := os.Expand(string(data), os.Getenv)

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	return cfg, nil
}

// Default 返回全部使用默认值的配置。
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Fetch.TimeoutSeconds == 0 {
		cfg.Fetch.TimeoutSeconds = 10
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "feedparse/1.0"
	}
	if cfg.Fetch.CacheTTLMinutes == 0 {
		cfg.Fetch.CacheTTLMinutes = 30
	}
	if cfg.Fetch.MaxItems == 0 {
		cfg.Fetch.MaxItems = 20
	}
	if cfg.Fetch.MaxBodyBytes == 0 {
		cfg.Fetch.MaxBodyBytes = 5 << 20
	}

	if cfg.Data.Dir == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.Data.Dir = filepath.Join(home, ".feedparse")
		} else {
			cfg.Data.Dir = "./.feedparse-data"
		}
	} else if strings.HasPrefix(cfg.Data.Dir, "~/") {
		// Go 不会自动展开 ~
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.Data.Dir = filepath.Join(home, cfg.Data.Dir[2:])
		}
	}
	if cfg.Data.DB == "" {
		cfg.Data.DB = filepath.Join(cfg.Data.Dir, "feedparse.db")
	}

	cfg.Fetch.UserAgent = strings.TrimSpace(cfg.Fetch.UserAgent)
}
