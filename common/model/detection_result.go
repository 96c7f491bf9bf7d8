package model

import "encoding/json"

// DetectionResultData 检测结果容器
type DetectionResultData struct {
	Items     []DetectionItem   `json:"items"`               // 各阶段执行记录
	Anomalies []AnomalyRecord   `json:"anomalies,omitempty"` // 命中的异常记录
	Summary   *DetectionSummary `json:"summary,omitempty"`   // 汇总信息
}

// DetectionItem 单个阶段执行记录
type DetectionItem struct {
	Type     string          `json:"type"`                // query/model/fence/ingest
	Status   string          `json:"status"`              // SUCCESS/FAILED
	DataJSON json.RawMessage `json:"data_json,omitempty"` // 阶段产出数据
	Error    string          `json:"error,omitempty"`
}

// DetectionSummary 检测汇总
type DetectionSummary struct {
	ModelName    string  `json:"model_name"`              // 胜出模型（ols/ridge）
	CVRMSE       float64 `json:"cv_rmse"`                 // 交叉验证 RMSE
	RowsQueried  int     `json:"rows_queried"`            // 查询到的行数
	RowsScored   int     `json:"rows_scored"`             // 打分窗口行数
	AnomalyCount int     `json:"anomaly_count"`           // 异常记录数
	PartialError string  `json:"partial_error,omitempty"` // 部分成功时的错误信息
}

// 阶段状态常量
const (
	DetectionStatusSuccess = "SUCCESS"
	DetectionStatusFailed  = "FAILED"
)

// 阶段类型常量
const (
	DetectionTypeQuery  = "query"
	DetectionTypeModel  = "model"
	DetectionTypeFence  = "fence"
	DetectionTypeIngest = "ingest"
)
