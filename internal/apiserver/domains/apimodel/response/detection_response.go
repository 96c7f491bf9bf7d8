package response

import (
	"time"

	"ladp/common/model"
)

// DetectionResponse 检测任务响应（DTO）
type DetectionResponse struct {
	ID           string                     `json:"id"`
	WorkspaceID  string                     `json:"workspace_id"`
	Category     string                     `json:"category,omitempty"`
	SpanDays     int                        `json:"span_days"`
	ScoreDays    int                        `json:"score_days"`
	Status       string                     `json:"status"`
	Detection    *model.DetectionResultData `json:"detection,omitempty"`
	ErrorMessage string                     `json:"error_message,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// DetectionListResponse 检测任务列表响应（DTO）
type DetectionListResponse struct {
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
	Items []*DetectionResponse `json:"items"`
}
