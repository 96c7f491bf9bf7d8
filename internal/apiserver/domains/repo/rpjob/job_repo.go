package rpjob

import (
	"context"

	"ladp/common/model"
	"ladp/internal/apiserver/domains/entity/etjob"
)

// JobRepository 检测任务仓储接口（只定义，不实现）
// 实现在 infra/persistence 层
type JobRepository interface {
	// Create 创建检测任务
	Create(ctx context.Context, job *etjob.DetectionJob) error

	// GetByID 根据ID查询检测任务
	GetByID(ctx context.Context, jobID string) (*etjob.DetectionJob, error)

	// UpdateStatus 更新任务状态
	UpdateStatus(ctx context.Context, jobID string, status etjob.JobStatus) error

	// UpdateDetectionResult 更新检测结果（支持成功/失败两种情况）
	// result: 检测结果（成功时传入，失败时传 nil）
	// status: 任务状态（DETECTED 或 FAILED）
	// errorMsg: 错误信息（失败时传入）
	UpdateDetectionResult(ctx context.Context, jobID string, result *model.DetectionResultData, status string, errorMsg string) error

	// List 分页查询检测任务列表
	List(ctx context.Context, workspaceID string, page, limit int) ([]*etjob.DetectionJob, int64, error)
}
