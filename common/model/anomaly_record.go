package model

import "time"

// AnomalyRecord 异常记录（上报到日志存储的扁平结构）
// 与 ingestion 端约定的字段保持一致
type AnomalyRecord struct {
	TimeGenerated time.Time `json:"time_generated"` // 事件时间戳
	Actual        float64   `json:"actual"`         // 实际观测值
	Predicted     float64   `json:"predicted"`      // 模型预测值
	Flag          int       `json:"anomaly_flag"`   // 异常标记: -1/0/1
	Category      string    `json:"category"`       // 数据类型标签
}

// 异常标记常量
const (
	FlagNegative = -1 // 负向异常（低于下界）
	FlagNone     = 0  // 正常
	FlagPositive = 1  // 正向异常（高于上界）
)
