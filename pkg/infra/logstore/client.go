package logstore

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"ladp/common/model"
)

// DemoWorkspaceID 演示工作区哨兵值
// 命中时使用内置演示 Token 而非配置的默认凭据
const DemoWorkspaceID = "DEMO_WORKSPACE"

// 用量序列的 measurement 与异常上报的 measurement
const (
	usageMeasurement   = "log_usage"
	anomalyMeasurement = "log_anomaly"
)

// UsageRow 用量序列行（按小时聚合的日志量）
type UsageRow struct {
	Time     time.Time // 时间戳
	Category string    // 数据类型标签
	Value    float64   // 日志量
}

// QueryResult 查询结果（支持部分成功）
// Rows 与 Partial 同时返回：部分成功时调用方自行决定如何处理
type QueryResult struct {
	Rows    []UsageRow
	Partial error // 部分成功时的错误（nil 表示完全成功）
}

// Client 日志分析存储客户端（查询 + 异常上报）
type Client struct {
	cli     influxdb2.Client
	demoCli influxdb2.Client
	org     string
	bucket  string
}

// NewClient 创建日志存储客户端
// demoToken 为空时演示工作区退回默认凭据
func NewClient(url, token, demoToken, org, bucket string) *Client {
	c := &Client{
		cli:    influxdb2.NewClient(url, token),
		org:    org,
		bucket: bucket,
	}
	if demoToken != "" {
		c.demoCli = influxdb2.NewClient(url, demoToken)
	}
	return c
}

// queryAPI 根据工作区选择凭据
func (c *Client) queryAPI(workspaceID string) api.QueryAPI {
	if workspaceID == DemoWorkspaceID && c.demoCli != nil {
		return c.demoCli.QueryAPI(c.org)
	}
	return c.cli.QueryAPI(c.org)
}

// writeAPI 根据工作区选择凭据
func (c *Client) writeAPI(workspaceID string) api.WriteAPIBlocking {
	if workspaceID == DemoWorkspaceID && c.demoCli != nil {
		return c.demoCli.WriteAPIBlocking(c.org, c.bucket)
	}
	return c.cli.WriteAPIBlocking(c.org, c.bucket)
}

// QueryUsage 查询指定工作区的用量序列
// category 为空表示全部数据类型；spanDays 为查询时间跨度（天）
// 返回的 QueryResult 可能携带部分错误（Partial），已取回的行仍然可用
func (c *Client) QueryUsage(ctx context.Context, workspaceID, category string, spanDays int) (*QueryResult, error) {
	flux := buildUsageQuery(c.bucket, workspaceID, category, spanDays)

	result, err := c.queryAPI(workspaceID).Query(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("logstore query failed: %w", err)
	}

	rows := make([]UsageRow, 0, 256)
	for result.Next() {
		record := result.Record()

		value, ok := record.Value().(float64)
		if !ok {
			// 非数值行直接跳过
			continue
		}

		cat, _ := record.ValueByKey("category").(string)

		rows = append(rows, UsageRow{
			Time:     record.Time(),
			Category: cat,
			Value:    value,
		})
	}

	// 部分成功：已取回的行与错误同时返回，由调用方决策
	qr := &QueryResult{Rows: rows}
	if err := result.Err(); err != nil {
		qr.Partial = fmt.Errorf("logstore partial result: %w", err)
	}

	return qr, nil
}

// WriteAnomalies 上报异常记录
func (c *Client) WriteAnomalies(ctx context.Context, workspaceID string, records []model.AnomalyRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*write.Point, 0, len(records))
	for _, r := range records {
		p := influxdb2.NewPoint(
			anomalyMeasurement,
			map[string]string{
				"workspace_id": workspaceID,
				"category":     r.Category,
			},
			map[string]interface{}{
				"actual":       r.Actual,
				"predicted":    r.Predicted,
				"anomaly_flag": r.Flag,
			},
			r.TimeGenerated,
		)
		points = append(points, p)
	}

	if err := c.writeAPI(workspaceID).WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("logstore write anomalies failed: %w", err)
	}

	return nil
}

// Close 关闭客户端
func (c *Client) Close() {
	c.cli.Close()
	if c.demoCli != nil {
		c.demoCli.Close()
	}
}

// buildUsageQuery 构造用量序列的 Flux 查询（按小时聚合）
func buildUsageQuery(bucket, workspaceID, category string, spanDays int) string {
	flux := fmt.Sprintf(`from(bucket: %q)
  |> range(start: -%dd)
  |> filter(fn: (r) => r._measurement == %q)
  |> filter(fn: (r) => r.workspace_id == %q)`,
		bucket, spanDays, usageMeasurement, workspaceID)

	if category != "" {
		flux += fmt.Sprintf(`
  |> filter(fn: (r) => r.category == %q)`, category)
	}

	flux += `
  |> aggregateWindow(every: 1h, fn: sum, createEmpty: false)`

	return flux
}
