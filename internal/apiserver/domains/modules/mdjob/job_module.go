package mdjob

import (
	"context"

	"ladp/internal/apiserver/domains/entity/etjob"
	"ladp/internal/apiserver/domains/repo/rpjob"
)

// JobModule 检测任务模块（业务编排层）
type JobModule struct {
	jobRepo rpjob.JobRepository
}

// NewJobModule 创建检测任务模块
func NewJobModule(jobRepo rpjob.JobRepository) *JobModule {
	return &JobModule{
		jobRepo: jobRepo,
	}
}

// CreateJob 创建检测任务（数据操作）
func (m *JobModule) CreateJob(ctx context.Context, job *etjob.DetectionJob) error {
	return m.jobRepo.Create(ctx, job)
}

// GetJob 查询检测任务
func (m *JobModule) GetJob(ctx context.Context, jobID string) (*etjob.DetectionJob, error) {
	return m.jobRepo.GetByID(ctx, jobID)
}

// MarkJobFailed 标记检测任务失败
func (m *JobModule) MarkJobFailed(ctx context.Context, jobID string, errorMsg string) error {
	return m.jobRepo.UpdateDetectionResult(ctx, jobID, nil, string(etjob.JobStatusFailed), errorMsg)
}

// ListJobs 查询检测任务列表
func (m *JobModule) ListJobs(ctx context.Context, workspaceID string, page, limit int) ([]*etjob.DetectionJob, int64, error) {
	return m.jobRepo.List(ctx, workspaceID, page, limit)
}
