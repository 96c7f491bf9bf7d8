package response

import (
	"ladp/common/model"
	"ladp/internal/domains/common/job"
	"ladp/pkg/errorutil"
)

// DetectionResult 检测结果（实现 ResultI 接口）
type DetectionResult struct {
	ID     string                     `json:"id"`
	Status string                     `json:"status"`
	Data   *model.DetectionResultData `json:"data,omitempty"`
	Error  *errorutil.Error           `json:"error,omitempty"`
}

// NewDetectionResult 创建检测结果
func NewDetectionResult() *DetectionResult {
	return &DetectionResult{}
}

// Set 实现 ResultI 接口
func (r *DetectionResult) Set(meta *job.Meta, err error) {
	r.ID = meta.ID
	if err != nil {
		r.Status = model.DetectionStatusFailed
		r.Error = errorutil.Wrap(err)
	} else {
		r.Status = model.DetectionStatusSuccess
	}
}

// GetStatus 实现 ResultI 接口
func (r *DetectionResult) GetStatus() string {
	return r.Status
}
