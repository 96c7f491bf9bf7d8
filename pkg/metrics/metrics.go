package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 任务处理指标（worker 侧）
var (
	// JobsProcessed 按动作类型与结果统计的任务处理数
	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladp_jobs_processed_total",
		Help: "Number of queue jobs processed, labeled by action type and outcome.",
	}, []string{"action_type", "outcome"})

	// AnomaliesFound 命中的异常记录数
	AnomaliesFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladp_anomalies_found_total",
		Help: "Number of anomaly records produced by the detection pipeline.",
	}, []string{"workspace_id"})

	// ProcessDuration 任务处理时长
	ProcessDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ladp_job_process_duration_seconds",
		Help:    "Duration of queue job processing.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)

// 处理结果标签常量
const (
	OutcomeSuccess = "success"
	OutcomeRelease = "release"
	OutcomeBury    = "bury"
)
