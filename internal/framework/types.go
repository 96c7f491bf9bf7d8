package framework

import "time"

// Message 消息结构（框架内部流转）
type Message struct {
	ID       string                 // 消息 ID
	Queue    string                 // 队列名称
	Data     []byte                 // 原始 Job 数据
	Attempts int                    // 重试次数
	Extra    map[string]interface{} // 扩展字段
}

// SubscriberConfig Subscriber 运行配置
type SubscriberConfig struct {
	QueueName    string        // 队列名称
	Concurrency  int           // 并发拉取数
	Rate         time.Duration // 拉取速率
	Timeout      time.Duration // 拉取超时
	TTR          time.Duration // Time-To-Run
	ErrorBackoff time.Duration // 错误退避时间
}

// ProcessorConfig Processor 运行配置
type ProcessorConfig struct {
	Concurrency     int           // 并发处理数
	BufferSize      int           // Channel 缓冲大小
	Timeout         time.Duration // 单个任务超时
	ReleaseDelay    time.Duration // Release 重投递延迟
	DeadLetterQueue string        // 死信队列名称
}
