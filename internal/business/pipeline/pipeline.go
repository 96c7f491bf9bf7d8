package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ladp/common/model"
	"ladp/pkg/config"
	"ladp/pkg/errorutil"
	"ladp/pkg/infra/logstore"
	"ladp/pkg/logger"
)

// SeriesSource 序列数据源接口（由 logstore.Client 实现）
type SeriesSource interface {
	QueryUsage(ctx context.Context, workspaceID, category string, spanDays int) (*logstore.QueryResult, error)
	WriteAnomalies(ctx context.Context, workspaceID string, records []model.AnomalyRecord) error
}

// Input 检测管道输入参数（所有数据从 payload 传入）
type Input struct {
	RequestID   string `json:"request_id"`
	JobID       string `json:"job_id"`
	WorkspaceID string `json:"workspace_id"`
	Category    string `json:"category"`
	SpanDays    int    `json:"span_days"`
	ScoreDays   int    `json:"score_days"`
}

// Pipeline 检测管道：查询 → 特征 → 建模 → 打分 → 围栏 → 上报
type Pipeline struct {
	source SeriesSource
	cfg    config.DetectConfig
	logger logger.Logger
}

// New 创建检测管道
func New(source SeriesSource, cfg config.DetectConfig, log logger.Logger) *Pipeline {
	return &Pipeline{
		source: source,
		cfg:    cfg,
		logger: log,
	}
}

// Run 执行完整检测流程
// 查询失败为任务级失败（返回 error）；围栏之后的上报失败只记录在结果项里
func (p *Pipeline) Run(ctx context.Context, input *Input) (*model.DetectionResultData, error) {
	items := make([]model.DetectionItem, 0, 4)

	// 1. 查询阶段
	qr, err := p.source.QueryUsage(ctx, input.WorkspaceID, input.Category, input.SpanDays)
	if err != nil {
		// 查询失败视为临时故障，交给队列重试
		return nil, errorutil.RetriableWithDetails("query stage failed", err.Error())
	}

	partialError := ""
	if qr.Partial != nil {
		// 部分成功：继续用已取回的行，错误记录在结果里
		partialError = qr.Partial.Error()
		p.logger.Warnf(ctx, "[Pipeline] Partial query result: %v", qr.Partial)
	}

	frame := NewSeriesFrame(len(qr.Rows))
	for _, row := range qr.Rows {
		frame.Append(row.Time, row.Category, row.Value)
	}

	items = append(items, stageItem(model.DetectionTypeQuery, map[string]interface{}{
		"rows":          frame.Len(),
		"partial_error": partialError,
	}))

	// 2. 特征准备阶段
	frame.BuildFeatures()

	// 3. 训练/打分窗口切分（末尾 ScoreDays 天打分，其余训练）
	cutoff := frame.MaxTime().Add(-time.Duration(input.ScoreDays) * 24 * time.Hour)
	train, score := splitFrame(frame, cutoff)

	if train.Len() < p.cfg.MinTrainRows {
		return nil, errorutil.NonRetriable(
			fmt.Sprintf("not enough training rows: got %d, need %d", train.Len(), p.cfg.MinTrainRows))
	}
	if score.Len() == 0 {
		return nil, errorutil.NonRetriable("scoring window is empty")
	}

	// 4. 模型训练阶段（两个候选模型交叉验证取优）
	winner, cvRMSE, err := SelectModel(train.Features, train.Actuals, p.cfg.CVFolds, p.cfg.RidgeLambda)
	if err != nil {
		return nil, errorutil.NonRetriableWithDetails("model stage failed", err.Error())
	}

	items = append(items, stageItem(model.DetectionTypeModel, map[string]interface{}{
		"model":   winner.Name(),
		"cv_rmse": cvRMSE,
	}))

	// 5. 打分阶段：残差 = 实际 - 预测
	score.Predicted = winner.PredictAll(score.Features)
	score.Residuals = make([]float64, score.Len())
	for i := range score.Actuals {
		score.Residuals[i] = score.Actuals[i] - score.Predicted[i]
	}

	// 6. 围栏阶段：按数据类型独立计算分位围栏
	bounds := ApplyFences(score, p.cfg.FenceLowQ, p.cfg.FenceHighQ, p.cfg.FenceScale)

	anomalies := collectAnomalies(score)

	items = append(items, stageItem(model.DetectionTypeFence, map[string]interface{}{
		"bounds":    bounds,
		"anomalies": len(anomalies),
	}))

	// 7. 上报阶段：只上报命中的记录；失败不影响结果返回
	ingestItem := model.DetectionItem{
		Type:   model.DetectionTypeIngest,
		Status: model.DetectionStatusSuccess,
	}
	if len(anomalies) > 0 {
		if err := p.source.WriteAnomalies(ctx, input.WorkspaceID, anomalies); err != nil {
			p.logger.Errorf(ctx, "[Pipeline] Ingest stage failed: %v", err)
			ingestItem.Status = model.DetectionStatusFailed
			ingestItem.Error = err.Error()
		}
	}
	items = append(items, ingestItem)

	return &model.DetectionResultData{
		Items:     items,
		Anomalies: anomalies,
		Summary: &model.DetectionSummary{
			ModelName:    winner.Name(),
			CVRMSE:       cvRMSE,
			RowsQueried:  frame.Len(),
			RowsScored:   score.Len(),
			AnomalyCount: len(anomalies),
			PartialError: partialError,
		},
	}, nil
}

// splitFrame 按时间切分训练/打分窗口（cutoff 之前训练，之后打分）
func splitFrame(frame *SeriesFrame, cutoff time.Time) (train, score *SeriesFrame) {
	train = NewSeriesFrame(frame.Len())
	score = NewSeriesFrame(frame.Len())

	for i, t := range frame.Times {
		dst := score
		if t.Before(cutoff) {
			dst = train
		}
		dst.Append(t, frame.Categories[i], frame.Actuals[i])
		dst.Features = append(dst.Features, frame.Features[i])
	}

	return train, score
}

// collectAnomalies 收集命中的异常记录
func collectAnomalies(score *SeriesFrame) []model.AnomalyRecord {
	anomalies := make([]model.AnomalyRecord, 0)
	for i, flag := range score.Flags {
		if flag == model.FlagNone {
			continue
		}
		anomalies = append(anomalies, model.AnomalyRecord{
			TimeGenerated: score.Times[i],
			Actual:        score.Actuals[i],
			Predicted:     score.Predicted[i],
			Flag:          flag,
			Category:      score.Categories[i],
		})
	}
	return anomalies
}

// stageItem 构造成功的阶段记录
func stageItem(stageType string, data interface{}) model.DetectionItem {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return model.DetectionItem{
			Type:   stageType,
			Status: model.DetectionStatusFailed,
			Error:  "marshal stage data: " + err.Error(),
		}
	}
	return model.DetectionItem{
		Type:     stageType,
		Status:   model.DetectionStatusSuccess,
		DataJSON: dataJSON,
	}
}
