package mddetect

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ladp/common/model"
	"ladp/internal/apiserver/domains/entity/etjob"
	"ladp/internal/apiserver/infra/mq/lmstfy"
	"ladp/internal/apiserver/infra/persistence/redis"
	"ladp/internal/apiserver/pkg/idgen"
)

// DetectModule 检测分发模块
// 职责：
// 1. 组装 Lmstfy 和 Redis 客户端
// 2. 包含检测相关的业务逻辑（消息格式构造、频道命名规则）
type DetectModule struct {
	lmstfyClient *lmstfy.Client
	redisClient  *redis.PubSubClient
	queueName    string
}

// DetectionNotification 检测完成通知（Redis PubSub 负载）
type DetectionNotification struct {
	JobID       string `json:"job_id"`
	WorkspaceID string `json:"workspace_id"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// NewDetectModule 创建检测分发模块实例
func NewDetectModule(lmstfyClient *lmstfy.Client, redisClient *redis.PubSubClient, queueName string) *DetectModule {
	return &DetectModule{
		lmstfyClient: lmstfyClient,
		redisClient:  redisClient,
		queueName:    queueName,
	}
}

// PublishDetectJob 发布检测任务到队列
// 业务逻辑：
// 1. 构造标准化消息格式（包含 RequestID, ActionType, OrgID 等）
// 2. 携带 worker 执行所需的全部参数（避免 worker 查询 DB）
func (m *DetectModule) PublishDetectJob(ctx context.Context, job *etjob.DetectionJob) error {
	// 请求流水号用于全链路追踪
	requestID := fmt.Sprintf("req-%d", idgen.GenerateID())

	message := model.LogDetectJob{
		Payload: model.LogDetectPayload{
			Data: model.LogDetectData{
				RequestID:  requestID,
				OrgID:      "0", // MVP 固定值
				ActionType: model.ActionTypeLogDetect,
				ID:         job.ID,
				Data: model.LogDetectBusinessData{
					JobID:       job.ID,
					WorkspaceID: job.WorkspaceID,
					Category:    job.Category,
					SpanDays:    job.SpanDays,
					ScoreDays:   job.ScoreDays,
				},
			},
		},
	}

	// 调用基础设施层
	return m.lmstfyClient.Publish(ctx, m.queueName, message)
}

// WaitForDetectionResult 等待检测结果（Smart Wait）
// 业务逻辑：
// 1. 知道订阅哪个频道（业务约定：detection:result:{jobID}）
// 2. 解析通知负载
func (m *DetectModule) WaitForDetectionResult(ctx context.Context, jobID string, timeout time.Duration) (*DetectionNotification, error) {
	// 业务逻辑：频道命名规则
	channel := fmt.Sprintf("detection:result:%s", jobID)

	payload, err := m.redisClient.Subscribe(ctx, channel, timeout)
	if err != nil {
		return nil, err
	}

	var notification DetectionNotification
	if err := json.Unmarshal([]byte(payload), &notification); err != nil {
		return nil, err
	}

	return &notification, nil
}
