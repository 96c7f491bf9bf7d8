package response

import (
	"ladp/internal/apiserver/domains/entity/etjob"
)

// FromJobEntity 从领域对象转换为响应 DTO
func FromJobEntity(job *etjob.DetectionJob) *DetectionResponse {
	return &DetectionResponse{
		ID:           job.ID,
		WorkspaceID:  job.WorkspaceID,
		Category:     job.Category,
		SpanDays:     job.SpanDays,
		ScoreDays:    job.ScoreDays,
		Status:       string(job.Status),
		Detection:    job.DetectResult,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
}

// FromJobEntities 批量转换为列表响应 DTO
func FromJobEntities(jobs []*etjob.DetectionJob, total int64, page, limit int) *DetectionListResponse {
	items := make([]*DetectionResponse, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, FromJobEntity(job))
	}
	return &DetectionListResponse{
		Total: total,
		Page:  page,
		Limit: limit,
		Items: items,
	}
}
