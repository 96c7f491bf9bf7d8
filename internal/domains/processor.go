package domains

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/google/uuid"

	"ladp/internal/domains/common/job"
	"ladp/pkg/errorutil"
	"ladp/pkg/lmstfyx"
	"ladp/pkg/logger"
	"ladp/pkg/metrics"
)

// GetProcess 返回核心处理函数（注入到 Processor）
// detectionService 注入到 Context，Handler 内部取用
func GetProcess(log logger.Logger, detectionService interface{}) lmstfyx.Proc {
	return func(ctx context.Context, lmstfyJob *client.Job) *lmstfyx.JobResp {
		startTime := time.Now()

		// 1. 解析 Job
		standardJob, meta, bizPayload, err := parseJob(ctx, lmstfyJob, log)
		if err != nil {
			log.Errorf(ctx, "[GetProcess] parseJob failed: %v", err)
			return buryResp("unknown")
		}

		actionType := standardJob.Payload.Data.ActionType

		// 2. 注入 TraceID 和依赖到 Context
		ctx = context.WithValue(ctx, "trace_id", meta.RequestID)
		ctx = context.WithValue(ctx, "action_type", actionType)
		ctx = context.WithValue(ctx, "job_id", meta.ID)
		if detectionService != nil {
			ctx = context.WithValue(ctx, "detection_service", detectionService)
		}

		log.Infof(ctx, "[GetProcess] Processing job: action_type=%s, request_id=%s, id=%s",
			meta.ActionType, meta.RequestID, meta.ID)

		// 3. 从 HandlerMap 获取 Handler
		handlerFunc, ok := HandlerMap[actionType]
		if !ok {
			log.Errorf(ctx, "[GetProcess] handler not found for action_type: %s", actionType)
			return buryResp(actionType)
		}

		// 4. 调用 Handler（捕获 panic）
		var resp *lmstfyx.JobResp
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf(ctx, "[GetProcess] handler panic: %v", r)
					resp = buryResp(actionType)
				}
			}()

			handler, err := handlerFunc(ctx, meta, bizPayload)
			if err != nil {
				log.Errorf(ctx, "[GetProcess] handler creation failed: %v", err)
				resp = buryResp(actionType)
				return
			}

			handlerResp := handler.GetProcess()
			resp = doJobReport(ctx, handlerResp, meta, actionType, log)
		}()

		// 5. 记录处理时长
		duration := time.Since(startTime)
		log.Infof(ctx, "[GetProcess] Processing complete: action=%d, duration=%v", resp.Action, duration)

		return resp
	}
}

// parseJob 解析 Job
func parseJob(ctx context.Context, lmstfyJob *client.Job, log logger.Logger) (*job.Job, *job.Meta, interface{}, error) {
	// 1. 反序列化 Job
	var standardJob job.Job
	if err := json.Unmarshal(lmstfyJob.Data, &standardJob); err != nil {
		return nil, nil, nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	// 2. 校验必填字段
	if standardJob.Payload == nil || standardJob.Payload.Data == nil {
		return nil, nil, nil, fmt.Errorf("invalid job structure: payload.data is nil")
	}

	data := standardJob.Payload.Data

	// 3. 提取元数据
	meta := &job.Meta{
		RequestID:  data.RequestID,
		OrgID:      data.OrgID,
		ActionType: data.ActionType,
		ID:         data.ID,
	}

	// RequestID 为空则生成一个
	if meta.RequestID == "" {
		meta.RequestID = uuid.New().String()
	}

	// 4. 提取业务数据
	bizPayload := data.Data

	log.Debugf(ctx, "[parseJob] Parsed: action_type=%s, request_id=%s, id=%s",
		meta.ActionType, meta.RequestID, meta.ID)

	return &standardJob, meta, bizPayload, nil
}

// doJobReport 生成 JobResp（根据错误可重试性判断 ACK/Release/Bury）
func doJobReport(
	ctx context.Context,
	resp interface{},
	meta *job.Meta,
	actionType string,
	log logger.Logger,
) *lmstfyx.JobResp {
	type responseEnvelope interface {
		GetError() *errorutil.Error
	}

	data, err := json.Marshal(resp)
	if err != nil {
		log.Errorf(ctx, "[doJobReport] marshal response failed: %v", err)
		return buryResp(actionType)
	}

	// 可重试错误 → Release 回队列；不可重试错误 → Bury 到死信队列
	if env, ok := resp.(responseEnvelope); ok {
		if respErr := env.GetError(); respErr != nil {
			if respErr.Retryable {
				log.Warnf(ctx, "[doJobReport] Retryable error, releasing: %s", respErr.Message)
				metrics.JobsProcessed.WithLabelValues(actionType, metrics.OutcomeRelease).Inc()
				return &lmstfyx.JobResp{
					Action: lmstfyx.JobRespStatusRelease,
					Data:   data,
				}
			}
			log.Errorf(ctx, "[doJobReport] Non-retryable error, burying: %s", respErr.Message)
			metrics.JobsProcessed.WithLabelValues(actionType, metrics.OutcomeBury).Inc()
			return &lmstfyx.JobResp{
				Action: lmstfyx.JobRespStatusBury,
				Data:   data,
			}
		}
	}

	metrics.JobsProcessed.WithLabelValues(actionType, metrics.OutcomeSuccess).Inc()
	return &lmstfyx.JobResp{
		Action: lmstfyx.JobRespStatusSuccess,
		Data:   data,
	}
}

func buryResp(actionType string) *lmstfyx.JobResp {
	metrics.JobsProcessed.WithLabelValues(actionType, metrics.OutcomeBury).Inc()
	return &lmstfyx.JobResp{
		Action: lmstfyx.JobRespStatusBury,
		Data:   nil,
	}
}
