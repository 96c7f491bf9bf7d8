package business

import (
	"context"
	"encoding/json"
	"time"

	"ladp/common/model"
	"ladp/internal/business/pipeline"
	"ladp/pkg/errorutil"
	"ladp/pkg/logger"
	"ladp/pkg/metrics"
)

// CallbackPublisher 回调消息发布接口（由 lmstfy.Client 实现）
type CallbackPublisher interface {
	Publish(queue string, data []byte, ttl, delay uint32) error
}

// DetectionService 检测业务服务：执行管道并回传结果
type DetectionService struct {
	pipeline      *pipeline.Pipeline
	mqClient      CallbackPublisher
	callbackQueue string
	logger        logger.Logger
}

// NewDetectionService 创建检测服务
func NewDetectionService(p *pipeline.Pipeline, mqClient CallbackPublisher, callbackQueue string, log logger.Logger) *DetectionService {
	return &DetectionService{
		pipeline:      p,
		mqClient:      mqClient,
		callbackQueue: callbackQueue,
		logger:        log,
	}
}

// ExecuteDetection 执行检测并发布回调消息
// 管道错误原样返回给调用方决定重试策略，回调消息携带失败详情
func (s *DetectionService) ExecuteDetection(ctx context.Context, input *pipeline.Input) (*model.DetectionResultData, error) {
	result, err := s.pipeline.Run(ctx, input)

	callback := &model.LogDetectCallback{
		RequestID:   input.RequestID,
		JobID:       input.JobID,
		WorkspaceID: input.WorkspaceID,
		ProcessedAt: time.Now().Unix(),
	}

	if err != nil {
		callback.Status = model.CallbackStatusFailed
		callback.Error = err.Error()
	} else {
		callback.Status = model.CallbackStatusSuccess
		callback.DetectionResult = result
		metrics.AnomaliesFound.WithLabelValues(input.WorkspaceID).Add(float64(result.Summary.AnomalyCount))
	}

	if pubErr := s.publishCallback(ctx, callback); pubErr != nil {
		// 回调发布失败比管道错误更严重：回调丢失会让任务状态停在 RUNNING，
		// 无论管道结果如何都强制重试，直到回调发布成功
		s.logger.Errorf(ctx, "[DetectionService] Publish callback failed: %v", pubErr)
		return result, errorutil.RetriableWithDetails("publish callback failed", pubErr.Error())
	}

	return result, err
}

func (s *DetectionService) publishCallback(ctx context.Context, callback *model.LogDetectCallback) error {
	data, err := json.Marshal(callback)
	if err != nil {
		return err
	}

	if err := s.mqClient.Publish(s.callbackQueue, data, 0, 0); err != nil {
		return err
	}

	s.logger.Infof(ctx, "[DetectionService] Callback published, queue: %s, jobID: %s, status: %s",
		s.callbackQueue, callback.JobID, callback.Status)
	return nil
}
