package entity

import (
	"time"

	"gorm.io/datatypes"
)

// DetectionJob 检测任务实体（包含检测结果）
type DetectionJob struct {
	// 基础字段
	ID          string `gorm:"column:id;primaryKey;type:varchar(64)"`
	WorkspaceID string `gorm:"column:workspace_id;type:varchar(128);not null;index:idx_workspace_status"`
	Category    string `gorm:"column:category;type:varchar(64)"`

	// 检测参数
	SpanDays  int `gorm:"column:span_days;not null"`
	ScoreDays int `gorm:"column:score_days;not null"`

	// 检测状态与结果
	Status       string         `gorm:"column:status;type:varchar(16);not null;default:'RUNNING';index:idx_workspace_status"`
	DetectResult datatypes.JSON `gorm:"column:detect_result;type:json"`
	ErrorMessage string         `gorm:"column:error_message;type:varchar(1024)"`

	// 时间戳
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (DetectionJob) TableName() string {
	return "detection_jobs"
}

// 检测任务状态常量
const (
	JobStatusRunning  = "RUNNING"
	JobStatusDetected = "DETECTED"
	JobStatusFailed   = "FAILED"
)
