package etjob

import (
	"errors"
	"time"

	"ladp/common/model"
)

// 错误定义
var (
	ErrInvalidJobID       = errors.New("job ID cannot be empty")
	ErrInvalidWorkspaceID = errors.New("workspace ID cannot be empty")
	ErrInvalidSpanDays    = errors.New("span days must be positive")
	ErrInvalidScoreDays   = errors.New("score days must be in (0, span_days)")
	ErrNilDetectResult    = errors.New("detect result cannot be nil")
)

// DetectionJob 检测任务聚合根（领域对象）
type DetectionJob struct {
	ID           string                     // 任务ID (UUID)
	WorkspaceID  string                     // 工作区ID
	Category     string                     // 数据类型过滤（空表示全部）
	SpanDays     int                        // 查询跨度（天）
	ScoreDays    int                        // 打分窗口（天）
	Status       JobStatus                  // 任务状态
	DetectResult *model.DetectionResultData // 检测结果
	ErrorMessage string                     // 失败原因
	CreatedAt    time.Time                  // 创建时间
	UpdatedAt    time.Time                  // 更新时间
}

// JobStatus 任务状态
type JobStatus string

const (
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusDetected JobStatus = "DETECTED"
	JobStatusFailed   JobStatus = "FAILED"
)

// NewDetectionJob 创建检测任务（工厂方法）
func NewDetectionJob(id, workspaceID, category string, spanDays, scoreDays int) (*DetectionJob, error) {
	// 业务规则校验
	if id == "" {
		return nil, ErrInvalidJobID
	}
	if workspaceID == "" {
		return nil, ErrInvalidWorkspaceID
	}
	if spanDays <= 0 {
		return nil, ErrInvalidSpanDays
	}
	if scoreDays <= 0 || scoreDays >= spanDays {
		return nil, ErrInvalidScoreDays
	}

	return &DetectionJob{
		ID:          id,
		WorkspaceID: workspaceID,
		Category:    category,
		SpanDays:    spanDays,
		ScoreDays:   scoreDays,
		Status:      JobStatusRunning,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

// UpdateDetectResult 更新检测结果（领域行为）
func (j *DetectionJob) UpdateDetectResult(result *model.DetectionResultData) error {
	if result == nil {
		return ErrNilDetectResult
	}
	j.DetectResult = result
	j.Status = JobStatusDetected
	j.UpdatedAt = time.Now()
	return nil
}

// MarkAsFailed 标记为失败（领域行为）
func (j *DetectionJob) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = errorMsg
	j.UpdatedAt = time.Now()
}
