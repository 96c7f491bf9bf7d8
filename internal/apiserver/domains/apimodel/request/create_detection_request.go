package request

// CreateDetectionRequest 创建检测任务请求
type CreateDetectionRequest struct {
	WorkspaceID string `json:"workspace_id" binding:"required" example:"ws-prod-001"`
	Category    string `json:"category" example:"AppTraces"`
	SpanDays    int    `json:"span_days" binding:"omitempty,min=2,max=90" example:"30"`
	ScoreDays   int    `json:"score_days" binding:"omitempty,min=1" example:"7"`
}
