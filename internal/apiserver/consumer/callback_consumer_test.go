package consumer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ladp/common/model"
)

// nopLogger 测试用空日志
type nopLogger struct{}

func (nopLogger) Info(msg string, fields ...interface{})  {}
func (nopLogger) Error(msg string, fields ...interface{}) {}
func (nopLogger) Warn(msg string, fields ...interface{})  {}
func (nopLogger) Debug(msg string, fields ...interface{}) {}

func (nopLogger) InfoContext(ctx context.Context, msg string, fields ...interface{})  {}
func (nopLogger) ErrorContext(ctx context.Context, msg string, fields ...interface{}) {}
func (nopLogger) WarnContext(ctx context.Context, msg string, fields ...interface{})  {}
func (nopLogger) DebugContext(ctx context.Context, msg string, fields ...interface{}) {}
func (nopLogger) Sync() error                                                         { return nil }

func newTestConsumer() *CallbackConsumer {
	return NewCallbackConsumer(nil, nil, &Config{
		QueueName: "log_detect_callback",
		Timeout:   3,
		TTR:       30,
	}, nopLogger{})
}

func TestParseMessage(t *testing.T) {
	c := newTestConsumer()

	t.Run("成功回调", func(t *testing.T) {
		raw, err := json.Marshal(&model.LogDetectCallback{
			RequestID:   "req-1",
			JobID:       "job-1",
			WorkspaceID: "ws-1",
			Status:      model.CallbackStatusSuccess,
			DetectionResult: &model.DetectionResultData{
				Summary: &model.DetectionSummary{ModelName: "ridge", AnomalyCount: 1},
			},
			ProcessedAt: 1756500000,
		})
		require.NoError(t, err)

		callback, err := c.parseMessage(raw)
		require.NoError(t, err)
		assert.Equal(t, "job-1", callback.JobID)
		assert.Equal(t, model.CallbackStatusSuccess, callback.Status)
		require.NotNil(t, callback.DetectionResult)
		assert.Equal(t, 1, callback.DetectionResult.Summary.AnomalyCount)
	})

	t.Run("失败回调携带错误", func(t *testing.T) {
		raw := []byte(`{"job_id":"job-1","status":"FAILED","error":"not enough training rows"}`)
		callback, err := c.parseMessage(raw)
		require.NoError(t, err)
		assert.Equal(t, model.CallbackStatusFailed, callback.Status)
		assert.Equal(t, "not enough training rows", callback.Error)
	})

	t.Run("非法 JSON 报错", func(t *testing.T) {
		_, err := c.parseMessage([]byte("not json"))
		assert.Error(t, err)
	})

	t.Run("缺少 job_id 报错", func(t *testing.T) {
		_, err := c.parseMessage([]byte(`{"status":"SUCCESS"}`))
		assert.ErrorContains(t, err, "job_id")
	})

	t.Run("缺少 status 报错", func(t *testing.T) {
		_, err := c.parseMessage([]byte(`{"job_id":"job-1"}`))
		assert.ErrorContains(t, err, "status")
	})
}
