package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"ladp/common/model"
	"ladp/internal/business/pipeline"
	"ladp/pkg/config"
	"ladp/pkg/infra/logstore"
	"ladp/pkg/logger"
)

var (
	testcasePath = flag.String("testcase", "./tools/fasttest/testcase/usage.json", "测试用例路径")
	scoreDays    = flag.Int("score-days", 7, "打分窗口（天）")
)

// TestCase 测试用例结构（离线用量序列）
type TestCase struct {
	WorkspaceID string `json:"workspace_id"`
	Rows        []struct {
		Time     time.Time `json:"time"`
		Category string    `json:"category"`
		Value    float64   `json:"value"`
	} `json:"rows"`
}

// fixtureSource 用测试用例数据替代 InfluxDB 的序列数据源
type fixtureSource struct {
	tc *TestCase
}

func (s *fixtureSource) QueryUsage(ctx context.Context, workspaceID, category string, spanDays int) (*logstore.QueryResult, error) {
	result := &logstore.QueryResult{}
	for _, row := range s.tc.Rows {
		if category != "" && row.Category != category {
			continue
		}
		result.Rows = append(result.Rows, logstore.UsageRow{
			Time:     row.Time,
			Category: row.Category,
			Value:    row.Value,
		})
	}
	return result, nil
}

func (s *fixtureSource) WriteAnomalies(ctx context.Context, workspaceID string, records []model.AnomalyRecord) error {
	for _, rec := range records {
		fmt.Printf("  anomaly: time=%s category=%s actual=%.2f predicted=%.2f flag=%+d\n",
			rec.TimeGenerated.Format(time.RFC3339), rec.Category, rec.Actual, rec.Predicted, rec.Flag)
	}
	return nil
}

func main() {
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("  FastTest - LADP 检测管道快速测试工具")
	fmt.Println("========================================")

	// 1. 加载测试用例
	tc, err := loadTestCase(*testcasePath)
	if err != nil {
		fmt.Printf("❌ Failed to load test case: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Loaded %d rows from %s\n", len(tc.Rows), *testcasePath)

	// 2. 初始化管道（检测参数用默认值）
	detectCfg := config.DetectConfig{}
	detectCfg.ApplyDefaults()

	log, err := logger.NewZapLogger("info")
	if err != nil {
		fmt.Printf("❌ Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	p := pipeline.New(&fixtureSource{tc: tc}, detectCfg, log)

	// 3. 执行管道
	fmt.Println("\n========================================")
	fmt.Println("  Running Pipeline")
	fmt.Println("========================================")

	startTime := time.Now()
	result, err := p.Run(context.Background(), &pipeline.Input{
		RequestID:   "fasttest",
		JobID:       "fasttest-job",
		WorkspaceID: tc.WorkspaceID,
		SpanDays:    30,
		ScoreDays:   *scoreDays,
	})
	duration := time.Since(startTime)

	if err != nil {
		fmt.Printf("\n❌ Pipeline failed after %v: %v\n", duration, err)
		os.Exit(1)
	}

	// 4. 打印结果
	fmt.Printf("\n✅ Pipeline completed in %v\n", duration)
	for _, item := range result.Items {
		fmt.Printf("  stage=%s status=%s", item.Type, item.Status)
		if len(item.DataJSON) > 0 {
			fmt.Printf(" data=%s", string(item.DataJSON))
		}
		if item.Error != "" {
			fmt.Printf(" error=%s", item.Error)
		}
		fmt.Println()
	}
	if result.Summary != nil {
		fmt.Printf("\n  model=%s cv_rmse=%.4f rows_queried=%d rows_scored=%d anomalies=%d\n",
			result.Summary.ModelName, result.Summary.CVRMSE,
			result.Summary.RowsQueried, result.Summary.RowsScored, result.Summary.AnomalyCount)
	}
}

// loadTestCase 加载测试用例文件
func loadTestCase(path string) (*TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tc TestCase
	if err := json.Unmarshal(data, &tc); err != nil {
		return nil, err
	}
	if len(tc.Rows) == 0 {
		return nil, fmt.Errorf("test case has no rows")
	}

	return &tc, nil
}
