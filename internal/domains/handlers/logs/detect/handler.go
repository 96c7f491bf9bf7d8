package detect

import (
	"context"
	"encoding/json"
	"fmt"

	"ladp/common/model"
	"ladp/internal/business"
	"ladp/internal/business/pipeline"
	"ladp/internal/domains/common"
	"ladp/internal/domains/common/job"
	"ladp/internal/domains/common/response"
)

// DetectHandler 日志异常检测 Handler
type DetectHandler struct {
	ctx     context.Context
	meta    *job.Meta
	bizData *model.LogDetectBusinessData
}

// NewDetectHandler 创建检测 Handler
// 解析标准化 Job 消息的业务数据段
func NewDetectHandler(ctx context.Context, meta *job.Meta, payload interface{}) (common.HandlerServ, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload failed: %w", err)
	}

	var bizData model.LogDetectBusinessData
	if err := json.Unmarshal(payloadBytes, &bizData); err != nil {
		return nil, fmt.Errorf("unmarshal business data failed: %w", err)
	}

	// 校验必填字段
	if bizData.WorkspaceID == "" {
		return nil, fmt.Errorf("workspace_id is required")
	}
	if bizData.SpanDays <= 0 {
		return nil, fmt.Errorf("span_days must be positive")
	}
	if bizData.ScoreDays <= 0 || bizData.ScoreDays >= bizData.SpanDays {
		return nil, fmt.Errorf("score_days must be in (0, span_days)")
	}
	if bizData.JobID == "" {
		bizData.JobID = meta.ID
	}

	return &DetectHandler{
		ctx:     ctx,
		meta:    meta,
		bizData: &bizData,
	}, nil
}

// GetProcess 处理检测请求
func (h *DetectHandler) GetProcess() *response.Response {
	result := response.NewDetectionResult()

	err := h.process(result)

	resp := &response.Response{}
	resp.WrapResponse(result, h.meta, err)

	return resp
}

// process 业务处理逻辑
func (h *DetectHandler) process(result *response.DetectionResult) error {
	// 从 Context 获取 DetectionService
	detectionService, ok := h.ctx.Value("detection_service").(*business.DetectionService)
	if !ok || detectionService == nil {
		return fmt.Errorf("DetectionService not found in context")
	}

	input := &pipeline.Input{
		RequestID:   h.meta.RequestID,
		JobID:       h.bizData.JobID,
		WorkspaceID: h.bizData.WorkspaceID,
		Category:    h.bizData.Category,
		SpanDays:    h.bizData.SpanDays,
		ScoreDays:   h.bizData.ScoreDays,
	}

	detectResult, err := detectionService.ExecuteDetection(h.ctx, input)
	if err != nil {
		return err
	}

	result.Data = detectResult
	return nil
}
