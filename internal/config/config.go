package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体，进程启动时加载一次，之后只读
type Config struct {
	TianAPIKey  string            `yaml:"tianapi_key"`
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	MaxTopics   int               `yaml:"max_topics"`
	OutputDir   string            `yaml:"output_dir"`
	HistoryDir  string            `yaml:"history_dir"`
	Interval    int               `yaml:"interval"` // 循环模式下的周期（秒），非正数按 1 小时处理；只跑一次用 -once
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Server      ServerConfig      `yaml:"server"`
	DB          DBConfig          `yaml:"db"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider   string           `yaml:"provider"`
	Serper     SerperConfig     `yaml:"serper"`
	DuckDuckGo DuckDuckGoConfig `yaml:"duckduckgo"`
}

// SerperConfig Serper 配置
type SerperConfig struct {
	APIKey string `yaml:"api_key"`
}

// DuckDuckGoConfig DuckDuckGo 配置
type DuckDuckGoConfig struct {
	Timeout int `yaml:"timeout"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"` // 同时处理的话题数上限
	QPS     int `yaml:"qps"`
	RPM     int `yaml:"rpm"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// DBConfig 数据库归档配置，host 为空则不启用归档
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LoadConfig 从指定路径加载配置；文件不存在时退回默认值加环境变量
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv 环境变量覆盖，变量名与旧版 .env 约定保持一致
func (c *Config) applyEnv() {
	if v := os.Getenv("TIANAPI_KEY"); v != "" {
		c.TianAPIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("SEARCH_PROVIDER"); v != "" {
		c.Search.Provider = v
	}
	if v := os.Getenv("SERPER_API_KEY"); v != "" {
		c.Search.Serper.APIKey = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("MAX_TOPICS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTopics = n
		}
	}
	if v := os.Getenv("CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency.Workers = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-3.5-turbo"
	}
	if c.Search.Provider == "" {
		c.Search.Provider = "duckduckgo"
	}
	if c.MaxTopics <= 0 {
		c.MaxTopics = 5
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.HistoryDir == "" {
		c.HistoryDir = "."
	}
	if c.Concurrency.Workers <= 0 {
		c.Concurrency.Workers = 3
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 30
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
