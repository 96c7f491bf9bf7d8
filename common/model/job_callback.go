package model

// LogDetectCallback 检测完成回调消息（标准化）
// 用于 worker → apiserver callback consumer 的消息传递
type LogDetectCallback struct {
	RequestID       string               `json:"request_id"`                 // 对应请求的 request_id（链路追踪）
	JobID           string               `json:"job_id"`                     // 检测任务 ID
	WorkspaceID     string               `json:"workspace_id"`               // 工作区 ID
	Status          string               `json:"status"`                     // 回调状态: SUCCESS / FAILED
	DetectionResult *DetectionResultData `json:"detection_result,omitempty"` // 检测结果（成功时返回）
	Error           string               `json:"error,omitempty"`            // 错误信息（失败时返回）
	ProcessedAt     int64                `json:"processed_at"`               // 处理时间戳（Unix timestamp）
}

// 回调状态常量
const (
	CallbackStatusSuccess = "SUCCESS" // 检测成功
	CallbackStatusFailed  = "FAILED"  // 检测失败
)
