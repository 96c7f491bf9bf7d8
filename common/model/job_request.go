package model

// LogDetectJob 日志异常检测任务消息（标准化）
// 用于 apiserver → worker 的消息传递
type LogDetectJob struct {
	Payload LogDetectPayload `json:"payload"`
}

// LogDetectPayload Job 负载
type LogDetectPayload struct {
	Data LogDetectData `json:"data"`
}

// LogDetectData Job 数据层
type LogDetectData struct {
	// 元信息
	RequestID  string `json:"request_id"`  // 请求 ID（全链路追踪）
	OrgID      string `json:"org_id"`      // 组织 ID（MVP 固定为 "0"）
	ActionType string `json:"action_type"` // 动作类型，固定值 "log_detect"
	ID         string `json:"id"`          // 检测任务 ID

	// 业务数据
	Data LogDetectBusinessData `json:"data"`
}

// LogDetectBusinessData 检测任务业务数据
// 包含 worker 执行检测所需的所有参数（避免查询 DB）
type LogDetectBusinessData struct {
	JobID       string `json:"job_id"`             // 检测任务 ID
	WorkspaceID string `json:"workspace_id"`       // 工作区 ID
	Category    string `json:"category,omitempty"` // 数据类型过滤（为空表示全部）
	SpanDays    int    `json:"span_days"`          // 查询时间跨度（天）
	ScoreDays   int    `json:"score_days"`         // 打分窗口（末尾 N 天，其余为训练窗口）
}

// ActionTypeLogDetect 检测任务动作类型（HandlerMap 路由键）
const ActionTypeLogDetect = "log_detect"
