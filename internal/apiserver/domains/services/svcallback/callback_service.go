package svcallback

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ladp/common/model"
	"ladp/internal/apiserver/domains/entity/etjob"
	"ladp/internal/apiserver/domains/repo/rpjob"
	"ladp/internal/apiserver/infra/persistence/redis"
	"ladp/internal/apiserver/pkg/logger"
)

// CallbackService 回调处理服务
// 职责：
// 1. 处理 worker 发送的检测回调
// 2. 更新 DB 任务状态
// 3. 发送 Redis PubSub 通知（Smart Wait）
type CallbackService struct {
	jobRepo     rpjob.JobRepository
	redisClient *redis.PubSubClient
	logger      logger.Logger
}

// NewCallbackService 创建回调服务实例
func NewCallbackService(
	jobRepo rpjob.JobRepository,
	redisClient *redis.PubSubClient,
	log logger.Logger,
) *CallbackService {
	return &CallbackService{
		jobRepo:     jobRepo,
		redisClient: redisClient,
		logger:      log,
	}
}

// HandleCallback 处理检测回调
// 返回 error 表示处理失败（需要重试）
func (s *CallbackService) HandleCallback(ctx context.Context, callback *model.LogDetectCallback) error {
	s.logger.InfoContext(ctx, "Processing callback",
		"job_id", callback.JobID,
		"status", callback.Status,
		"request_id", callback.RequestID,
	)

	// 1. 根据回调状态更新 DB
	if err := s.updateJobStatus(ctx, callback); err != nil {
		s.logger.ErrorContext(ctx, "Failed to update job status",
			"job_id", callback.JobID,
			"error", err,
		)
		return fmt.Errorf("update job status failed: %w", err)
	}

	// 2. 发送 Redis PubSub 通知（用于 Smart Wait）
	if err := s.publishNotification(ctx, callback); err != nil {
		// 通知失败不影响整体流程（DB 已更新成功），只记录日志
		s.logger.WarnContext(ctx, "Failed to publish Redis notification",
			"job_id", callback.JobID,
			"error", err,
		)
	}

	s.logger.InfoContext(ctx, "Callback processed successfully",
		"job_id", callback.JobID,
	)

	return nil
}

// updateJobStatus 根据回调状态更新任务
func (s *CallbackService) updateJobStatus(ctx context.Context, callback *model.LogDetectCallback) error {
	if callback.Status == model.CallbackStatusSuccess {
		// 检测成功：更新状态为 DETECTED，保存检测结果
		return s.jobRepo.UpdateDetectionResult(
			ctx,
			callback.JobID,
			callback.DetectionResult,
			string(etjob.JobStatusDetected),
			"",
		)
	}

	// 检测失败：更新状态为 FAILED，保存错误信息
	return s.jobRepo.UpdateDetectionResult(
		ctx,
		callback.JobID,
		nil,
		string(etjob.JobStatusFailed),
		callback.Error,
	)
}

// publishNotification 发送 Redis PubSub 通知（使用任务独立频道）
func (s *CallbackService) publishNotification(ctx context.Context, callback *model.LogDetectCallback) error {
	channel := fmt.Sprintf("detection:result:%s", callback.JobID)

	notification := map[string]interface{}{
		"job_id":       callback.JobID,
		"workspace_id": callback.WorkspaceID,
		"status":       callback.Status,
		"timestamp":    time.Now().Unix(),
	}
	if callback.Status != model.CallbackStatusSuccess {
		notification["error"] = callback.Error
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification failed: %w", err)
	}

	if err := s.redisClient.Publish(ctx, channel, string(payload)); err != nil {
		return fmt.Errorf("publish to redis failed: %w", err)
	}

	s.logger.InfoContext(ctx, "Redis notification sent",
		"job_id", callback.JobID,
		"channel", channel,
	)

	return nil
}
