package request

import (
	"github.com/google/uuid"

	"ladp/internal/apiserver/domains/entity/etjob"
)

// ToJobEntity 将 Request DTO 转换为领域对象
// 缺省的窗口参数用配置默认值补全
func (r *CreateDetectionRequest) ToJobEntity(defaultSpanDays, defaultScoreDays int) (*etjob.DetectionJob, error) {
	spanDays := r.SpanDays
	if spanDays == 0 {
		spanDays = defaultSpanDays
	}
	scoreDays := r.ScoreDays
	if scoreDays == 0 {
		scoreDays = defaultScoreDays
	}

	return etjob.NewDetectionJob(
		uuid.New().String(),
		r.WorkspaceID,
		r.Category,
		spanDays,
		scoreDays,
	)
}
