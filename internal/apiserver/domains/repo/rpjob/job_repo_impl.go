package rpjob

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"ladp/common/entity"
	"ladp/common/model"
	"ladp/internal/apiserver/domains/entity/etjob"
)

// JobRepositoryImpl 检测任务仓储实现（MySQL）
type JobRepositoryImpl struct {
	db *gorm.DB
}

// NewJobRepository 创建检测任务仓储实例
func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

// Create 创建检测任务，将领域对象转换为 GORM 模型后存储
func (r *JobRepositoryImpl) Create(ctx context.Context, job *etjob.DetectionJob) error {
	po, err := r.toGormModel(job)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(po).Error
}

// GetByID 根据ID查询检测任务，将 GORM 模型转换为领域对象
func (r *JobRepositoryImpl) GetByID(ctx context.Context, jobID string) (*etjob.DetectionJob, error) {
	var po entity.DetectionJob
	err := r.db.WithContext(ctx).Where("id = ?", jobID).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomainModel(&po)
}

// UpdateStatus 更新任务状态
func (r *JobRepositoryImpl) UpdateStatus(ctx context.Context, jobID string, status etjob.JobStatus) error {
	return r.db.WithContext(ctx).
		Model(&entity.DetectionJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}

// UpdateDetectionResult 更新检测结果（支持成功/失败两种情况）
func (r *JobRepositoryImpl) UpdateDetectionResult(ctx context.Context, jobID string, result *model.DetectionResultData, status string, errorMsg string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}

	// 成功时保存检测结果
	if result != nil {
		resultJSON, err := json.Marshal(result)
		if err != nil {
			return err
		}
		updates["detect_result"] = resultJSON
	}

	// 失败时保存错误信息
	if errorMsg != "" {
		updates["error_message"] = errorMsg
	}

	return r.db.WithContext(ctx).
		Model(&entity.DetectionJob{}).
		Where("id = ?", jobID).
		Updates(updates).Error
}

// List 分页查询检测任务列表
func (r *JobRepositoryImpl) List(ctx context.Context, workspaceID string, page, limit int) ([]*etjob.DetectionJob, int64, error) {
	var total int64
	var pos []entity.DetectionJob

	query := r.db.WithContext(ctx).Model(&entity.DetectionJob{})
	if workspaceID != "" {
		query = query.Where("workspace_id = ?", workspaceID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&pos).Error; err != nil {
		return nil, 0, err
	}

	jobs := make([]*etjob.DetectionJob, 0, len(pos))
	for i := range pos {
		job, err := r.toDomainModel(&pos[i])
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
	}

	return jobs, total, nil
}

// toGormModel 领域对象转换为 GORM 模型
func (r *JobRepositoryImpl) toGormModel(job *etjob.DetectionJob) (*entity.DetectionJob, error) {
	po := &entity.DetectionJob{
		ID:           job.ID,
		WorkspaceID:  job.WorkspaceID,
		Category:     job.Category,
		SpanDays:     job.SpanDays,
		ScoreDays:    job.ScoreDays,
		Status:       string(job.Status),
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}

	if job.DetectResult != nil {
		resultJSON, err := json.Marshal(job.DetectResult)
		if err != nil {
			return nil, err
		}
		po.DetectResult = resultJSON
	}

	return po, nil
}

// toDomainModel GORM 模型转换为领域对象
func (r *JobRepositoryImpl) toDomainModel(po *entity.DetectionJob) (*etjob.DetectionJob, error) {
	job := &etjob.DetectionJob{
		ID:           po.ID,
		WorkspaceID:  po.WorkspaceID,
		Category:     po.Category,
		SpanDays:     po.SpanDays,
		ScoreDays:    po.ScoreDays,
		Status:       etjob.JobStatus(po.Status),
		ErrorMessage: po.ErrorMessage,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	}

	if len(po.DetectResult) > 0 {
		var result model.DetectionResultData
		if err := json.Unmarshal(po.DetectResult, &result); err != nil {
			return nil, err
		}
		job.DetectResult = &result
	}

	return job, nil
}
