package logstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ladp/common/model"
)

// usageCSV InfluxDB 注解 CSV 响应（两行用量序列）
const usageCSV = `#datatype,string,long,dateTime:RFC3339,string,double
#group,false,false,false,true,false
#default,_result,,,,
,result,table,_time,category,_value
,,0,2026-08-01T00:00:00Z,AppTraces,100
,,0,2026-08-01T01:00:00Z,AppTraces,150
`

// fakeInflux 捕获请求的 InfluxDB 假服务
type fakeInflux struct {
	mu        sync.Mutex
	queryAuth []string // 每次查询请求的 Authorization 头
	writeAuth []string
	writeBody []string
}

func (f *fakeInflux) server() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.URL.Path {
		case "/api/v2/query":
			f.queryAuth = append(f.queryAuth, r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			_, _ = w.Write([]byte(usageCSV))
		case "/api/v2/write":
			f.writeAuth = append(f.writeAuth, r.Header.Get("Authorization"))
			body, _ := io.ReadAll(r.Body)
			f.writeBody = append(f.writeBody, string(body))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestQueryUsage(t *testing.T) {
	t.Run("解析用量序列", func(t *testing.T) {
		fake := &fakeInflux{}
		srv := fake.server()
		defer srv.Close()

		c := NewClient(srv.URL, "prod-token", "", "ladp", "log_usage")
		defer c.Close()

		qr, err := c.QueryUsage(context.Background(), "ws-1", "AppTraces", 30)
		require.NoError(t, err)
		assert.Nil(t, qr.Partial)

		require.Len(t, qr.Rows, 2)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), qr.Rows[0].Time)
		assert.Equal(t, "AppTraces", qr.Rows[0].Category)
		assert.Equal(t, 100.0, qr.Rows[0].Value)
		assert.Equal(t, 150.0, qr.Rows[1].Value)
	})

	t.Run("服务端错误返回失败", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"code":"internal error","message":"engine unavailable"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "prod-token", "", "ladp", "log_usage")
		defer c.Close()

		_, err := c.QueryUsage(context.Background(), "ws-1", "", 30)
		assert.ErrorContains(t, err, "logstore query failed")
	})
}

func TestDemoCredentialSelection(t *testing.T) {
	t.Run("演示工作区使用演示 Token", func(t *testing.T) {
		fake := &fakeInflux{}
		srv := fake.server()
		defer srv.Close()

		c := NewClient(srv.URL, "prod-token", "demo-token", "ladp", "log_usage")
		defer c.Close()

		_, err := c.QueryUsage(context.Background(), DemoWorkspaceID, "", 30)
		require.NoError(t, err)
		_, err = c.QueryUsage(context.Background(), "ws-1", "", 30)
		require.NoError(t, err)

		require.Len(t, fake.queryAuth, 2)
		assert.Equal(t, "Token demo-token", fake.queryAuth[0])
		assert.Equal(t, "Token prod-token", fake.queryAuth[1])
	})

	t.Run("无演示 Token 退回默认凭据", func(t *testing.T) {
		fake := &fakeInflux{}
		srv := fake.server()
		defer srv.Close()

		c := NewClient(srv.URL, "prod-token", "", "ladp", "log_usage")
		defer c.Close()

		_, err := c.QueryUsage(context.Background(), DemoWorkspaceID, "", 30)
		require.NoError(t, err)

		require.Len(t, fake.queryAuth, 1)
		assert.Equal(t, "Token prod-token", fake.queryAuth[0])
	})

	t.Run("上报端同样按工作区选择凭据", func(t *testing.T) {
		fake := &fakeInflux{}
		srv := fake.server()
		defer srv.Close()

		c := NewClient(srv.URL, "prod-token", "demo-token", "ladp", "log_usage")
		defer c.Close()

		records := []model.AnomalyRecord{{
			TimeGenerated: time.Date(2026, 8, 13, 12, 0, 0, 0, time.UTC),
			Actual:        500,
			Predicted:     160,
			Flag:          model.FlagPositive,
			Category:      "AppTraces",
		}}
		require.NoError(t, c.WriteAnomalies(context.Background(), DemoWorkspaceID, records))

		require.Len(t, fake.writeAuth, 1)
		assert.Equal(t, "Token demo-token", fake.writeAuth[0])
	})
}

func TestWriteAnomalies(t *testing.T) {
	t.Run("记录写为行协议", func(t *testing.T) {
		fake := &fakeInflux{}
		srv := fake.server()
		defer srv.Close()

		c := NewClient(srv.URL, "prod-token", "", "ladp", "log_usage")
		defer c.Close()

		records := []model.AnomalyRecord{{
			TimeGenerated: time.Date(2026, 8, 13, 12, 0, 0, 0, time.UTC),
			Actual:        500,
			Predicted:     160,
			Flag:          model.FlagPositive,
			Category:      "AppTraces",
		}}
		require.NoError(t, c.WriteAnomalies(context.Background(), "ws-1", records))

		require.Len(t, fake.writeBody, 1)
		body := fake.writeBody[0]
		assert.Contains(t, body, "log_anomaly")
		assert.Contains(t, body, "workspace_id=ws-1")
		assert.Contains(t, body, "category=AppTraces")
		assert.Contains(t, body, "anomaly_flag=1i")
		assert.Contains(t, body, "actual=500")
	})

	t.Run("空记录不发请求", func(t *testing.T) {
		fake := &fakeInflux{}
		srv := fake.server()
		defer srv.Close()

		c := NewClient(srv.URL, "prod-token", "", "ladp", "log_usage")
		defer c.Close()

		require.NoError(t, c.WriteAnomalies(context.Background(), "ws-1", nil))
		assert.Empty(t, fake.writeBody)
	})
}

func TestBuildUsageQuery(t *testing.T) {
	t.Run("带数据类型过滤", func(t *testing.T) {
		flux := buildUsageQuery("log_usage", "ws-1", "AppTraces", 30)

		assert.Contains(t, flux, `from(bucket: "log_usage")`)
		assert.Contains(t, flux, "range(start: -30d)")
		assert.Contains(t, flux, `r._measurement == "log_usage"`)
		assert.Contains(t, flux, `r.workspace_id == "ws-1"`)
		assert.Contains(t, flux, `r.category == "AppTraces"`)
		assert.Contains(t, flux, "aggregateWindow(every: 1h, fn: sum, createEmpty: false)")
	})

	t.Run("空类型不加过滤", func(t *testing.T) {
		flux := buildUsageQuery("log_usage", "ws-1", "", 7)

		assert.Contains(t, flux, "range(start: -7d)")
		assert.False(t, strings.Contains(flux, "r.category"))
	})
}
