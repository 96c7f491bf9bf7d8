package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置（worker 侧）
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Lmstfy   LmstfyConfig   `mapstructure:"lmstfy"`
	LogStore LogStoreConfig `mapstructure:"logstore"`
	Detect   DetectConfig   `mapstructure:"detect"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Workers  []WorkerConfig `mapstructure:"workers"`
}

// MetricsConfig 指标端点配置
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // /metrics 监听地址
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// LmstfyConfig Lmstfy 配置
type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
}

// LogStoreConfig 日志分析存储配置
type LogStoreConfig struct {
	URL       string `mapstructure:"url"`
	Token     string `mapstructure:"token"`
	DemoToken string `mapstructure:"demo_token"` // 演示工作区专用 Token
	Org       string `mapstructure:"org"`
	Bucket    string `mapstructure:"bucket"`
}

// DetectConfig 检测算法参数
type DetectConfig struct {
	RidgeLambda  float64 `mapstructure:"ridge_lambda"`   // 岭回归正则系数
	CVFolds      int     `mapstructure:"cv_folds"`       // 交叉验证折数
	FenceLowQ    float64 `mapstructure:"fence_low_q"`    // 下分位（百分数）
	FenceHighQ   float64 `mapstructure:"fence_high_q"`   // 上分位（百分数）
	FenceScale   float64 `mapstructure:"fence_scale"`    // IQR 倍数
	MinTrainRows int     `mapstructure:"min_train_rows"` // 训练窗口最小行数
}

// WorkerConfig Worker 配置
type WorkerConfig struct {
	Name            string           `mapstructure:"name"`
	QueueName       string           `mapstructure:"queue_name"`
	CallbackQueue   string           `mapstructure:"callback_queue"`    // 回调队列名称
	DeadLetterQueue string           `mapstructure:"dead_letter_queue"` // 死信队列名称
	Subscriber      SubscriberConfig `mapstructure:"subscriber"`
	Processor       ProcessorConfig  `mapstructure:"processor"`
}

// SubscriberConfig Subscriber 配置
type SubscriberConfig struct {
	Threads      int           `mapstructure:"threads"`       // 并发拉取数
	Rate         time.Duration `mapstructure:"rate"`          // 拉取速率
	Timeout      time.Duration `mapstructure:"timeout"`       // 拉取超时
	TTR          time.Duration `mapstructure:"ttr"`           // Time-To-Run
	ErrorBackoff time.Duration `mapstructure:"error_backoff"` // 错误退避时间
}

// ProcessorConfig Processor 配置
type ProcessorConfig struct {
	Threads      int           `mapstructure:"threads"`       // 并发处理数
	BufferSize   int           `mapstructure:"buffer_size"`   // Channel 缓冲大小
	Timeout      time.Duration `mapstructure:"timeout"`       // 单个任务超时
	ReleaseDelay time.Duration `mapstructure:"release_delay"` // Release 重投递延迟
}

// Load 加载配置文件
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

	cfg.Detect.ApplyDefaults()

	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}

	return &cfg, nil
}

// ApplyDefaults 填充检测参数默认值
func (d *DetectConfig) ApplyDefaults() {
	if d.RidgeLambda <= 0 {
		d.RidgeLambda = 1.0
	}
	if d.CVFolds <= 1 {
		d.CVFolds = 5
	}
	if d.FenceLowQ <= 0 {
		d.FenceLowQ = 10
	}
	if d.FenceHighQ <= 0 {
		d.FenceHighQ = 90
	}
	if d.FenceScale <= 0 {
		d.FenceScale = 1.5
	}
	if d.MinTrainRows <= 0 {
		d.MinTrainRows = 24
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	if c.LogStore.URL == "" {
		return fmt.Errorf("logstore.url is required")
	}
	if len(c.Workers) == 0 {
		return fmt.Errorf("at least one worker is required")
	}
	if c.Detect.FenceLowQ >= c.Detect.FenceHighQ {
		return fmt.Errorf("detect.fence_low_q must be less than detect.fence_high_q")
	}
	return nil
}
