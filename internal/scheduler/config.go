package scheduler

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config 调度器配置
type Config struct {
	App       AppConfig        `mapstructure:"app"`
	APIServer APIServerConfig  `mapstructure:"apiserver"`
	Schedules []ScheduleConfig `mapstructure:"schedules"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type APIServerConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// ScheduleConfig 单条调度规则（定期对工作区发起检测）
type ScheduleConfig struct {
	Name        string `mapstructure:"name"`
	Cron        string `mapstructure:"cron"`
	WorkspaceID string `mapstructure:"workspace_id"`
	Category    string `mapstructure:"category"`
	SpanDays    int    `mapstructure:"span_days"`
	ScoreDays   int    `mapstructure:"score_days"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load 从配置文件加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置完整性
func (c *Config) Validate() error {
	if c.APIServer.BaseURL == "" {
		return fmt.Errorf("apiserver base_url is required")
	}
	for _, s := range c.Schedules {
		if s.Cron == "" {
			return fmt.Errorf("cron expression is required for schedule %q", s.Name)
		}
		if s.WorkspaceID == "" {
			return fmt.Errorf("workspace_id is required for schedule %q", s.Name)
		}
	}
	return nil
}
