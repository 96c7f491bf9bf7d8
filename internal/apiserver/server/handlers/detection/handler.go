package detection

import "ladp/internal/apiserver/domains/services/svjob"

// DetectionHandler 检测任务 HTTP 处理器
type DetectionHandler struct {
	jobService       *svjob.JobService
	defaultSpanDays  int
	defaultScoreDays int
	maxWaitSeconds   int
}

// NewDetectionHandler 创建检测任务处理器实例
func NewDetectionHandler(jobService *svjob.JobService, defaultSpanDays, defaultScoreDays, maxWaitSeconds int) *DetectionHandler {
	return &DetectionHandler{
		jobService:       jobService,
		defaultSpanDays:  defaultSpanDays,
		defaultScoreDays: defaultScoreDays,
		maxWaitSeconds:   maxWaitSeconds,
	}
}
