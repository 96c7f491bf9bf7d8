package svjob

import (
	"context"
	"fmt"
	"time"

	"ladp/internal/apiserver/domains/entity/etjob"
	"ladp/internal/apiserver/domains/modules/mddetect"
	"ladp/internal/apiserver/domains/modules/mdjob"
	"ladp/internal/apiserver/pkg/logger"
)

// JobService 检测任务服务，负责任务业务编排
type JobService struct {
	jobModule    *mdjob.JobModule
	detectModule *mddetect.DetectModule
	logger       logger.Logger
}

// NewJobService 创建检测任务服务实例
func NewJobService(jobModule *mdjob.JobModule, detectModule *mddetect.DetectModule, log logger.Logger) *JobService {
	return &JobService{
		jobModule:    jobModule,
		detectModule: detectModule,
		logger:       log,
	}
}

// CreateDetection 创建检测任务（完整业务流程）
// 1. 创建任务实体并落库（RUNNING）
// 2. 发布到检测队列
// 3. Smart Wait（等待检测结果通知，超时返回 RUNNING 任务）
func (s *JobService) CreateDetection(ctx context.Context, job *etjob.DetectionJob, waitSeconds int) (*etjob.DetectionJob, error) {
	// 1. 落库
	if err := s.jobModule.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("save detection job failed: %w", err)
	}

	// 2. 发布到检测队列
	if err := s.detectModule.PublishDetectJob(ctx, job); err != nil {
		// 发布失败直接标记任务失败，避免任务永远停在 RUNNING
		s.logger.ErrorContext(ctx, "Publish detect job failed", "job_id", job.ID, "error", err)
		job.MarkAsFailed(fmt.Sprintf("publish detect job failed: %v", err))
		if uerr := s.jobModule.MarkJobFailed(ctx, job.ID, job.ErrorMessage); uerr != nil {
			s.logger.ErrorContext(ctx, "Mark job failed error", "job_id", job.ID, "error", uerr)
		}
		return nil, fmt.Errorf("publish detect job failed: %w", err)
	}

	// 3. Smart Wait
	if waitSeconds > 0 {
		timeout := time.Duration(waitSeconds) * time.Second
		notification, err := s.detectModule.WaitForDetectionResult(ctx, job.ID, timeout)

		if err != nil {
			// 超时或订阅失败，只记录日志，返回任务当前状态（RUNNING）
			s.logger.WarnContext(ctx, "Wait for detection result timed out", "job_id", job.ID, "error", err)
			return job, nil
		}

		if notification != nil {
			// 回调消费者已更新 DB，重新读取拿到完整结果
			fresh, err := s.jobModule.GetJob(ctx, job.ID)
			if err != nil {
				return nil, fmt.Errorf("reload job after detection failed: %w", err)
			}
			if fresh != nil {
				return fresh, nil
			}
		}
	}

	return job, nil
}

// GetJob 查询检测任务
func (s *JobService) GetJob(ctx context.Context, jobID string) (*etjob.DetectionJob, error) {
	return s.jobModule.GetJob(ctx, jobID)
}

// ListJobs 查询检测任务列表
func (s *JobService) ListJobs(ctx context.Context, workspaceID string, page, limit int) ([]*etjob.DetectionJob, int64, error) {
	return s.jobModule.ListJobs(ctx, workspaceID, page, limit)
}
