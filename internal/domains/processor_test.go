package domains

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ladp/common/model"
	"ladp/internal/domains/common/job"
	"ladp/internal/domains/common/response"
	"ladp/pkg/errorutil"
	"ladp/pkg/lmstfyx"
)

// testLogger 测试用空日志
type testLogger struct{}

func (testLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (testLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (testLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (testLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (testLogger) Sync() error                                                    { return nil }

func makeJob(t *testing.T, data *job.JobPayloadData) *client.Job {
	t.Helper()
	raw, err := json.Marshal(&job.Job{Payload: &job.JobPayload{Data: data}})
	require.NoError(t, err)
	return &client.Job{ID: "msg-1", Queue: "log_detect", Data: raw}
}

func TestGetProcess(t *testing.T) {
	proc := GetProcess(testLogger{}, nil)

	t.Run("非法 JSON 直接 Bury", func(t *testing.T) {
		resp := proc(context.Background(), &client.Job{ID: "msg-1", Data: []byte("not json")})
		assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
	})

	t.Run("缺少 payload.data 直接 Bury", func(t *testing.T) {
		resp := proc(context.Background(), &client.Job{ID: "msg-1", Data: []byte(`{"payload":{}}`)})
		assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
	})

	t.Run("未知 action_type 直接 Bury", func(t *testing.T) {
		lmstfyJob := makeJob(t, &job.JobPayloadData{
			RequestID:  "req-1",
			OrgID:      "0",
			ActionType: "no_such_action",
			ID:         "job-1",
		})
		resp := proc(context.Background(), lmstfyJob)
		assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
	})

	t.Run("业务数据校验失败 Bury", func(t *testing.T) {
		// workspace_id 缺失，Handler 创建失败
		lmstfyJob := makeJob(t, &job.JobPayloadData{
			RequestID:  "req-1",
			OrgID:      "0",
			ActionType: model.ActionTypeLogDetect,
			ID:         "job-1",
			Data: map[string]interface{}{
				"span_days":  30,
				"score_days": 7,
			},
		})
		resp := proc(context.Background(), lmstfyJob)
		assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
	})
}

func TestParseJob(t *testing.T) {
	t.Run("正常解析", func(t *testing.T) {
		lmstfyJob := makeJob(t, &job.JobPayloadData{
			RequestID:  "req-1",
			OrgID:      "0",
			ActionType: model.ActionTypeLogDetect,
			ID:         "job-1",
			Data:       map[string]interface{}{"workspace_id": "ws-1"},
		})

		_, meta, bizPayload, err := parseJob(context.Background(), lmstfyJob, testLogger{})
		require.NoError(t, err)
		assert.Equal(t, "req-1", meta.RequestID)
		assert.Equal(t, model.ActionTypeLogDetect, meta.ActionType)
		assert.Equal(t, "job-1", meta.ID)
		assert.NotNil(t, bizPayload)
	})

	t.Run("RequestID 为空时自动生成", func(t *testing.T) {
		lmstfyJob := makeJob(t, &job.JobPayloadData{
			OrgID:      "0",
			ActionType: model.ActionTypeLogDetect,
			ID:         "job-1",
		})

		_, meta, _, err := parseJob(context.Background(), lmstfyJob, testLogger{})
		require.NoError(t, err)
		assert.NotEmpty(t, meta.RequestID)
	})
}

func TestDoJobReport(t *testing.T) {
	meta := &job.Meta{RequestID: "req-1", ActionType: model.ActionTypeLogDetect, ID: "job-1"}

	buildResp := func(err error) *response.Response {
		resp := &response.Response{}
		resp.WrapResponse(response.NewDetectionResult(), meta, err)
		return resp
	}

	t.Run("无错误时 ACK", func(t *testing.T) {
		resp := doJobReport(context.Background(), buildResp(nil), meta, model.ActionTypeLogDetect, testLogger{})
		assert.Equal(t, lmstfyx.JobRespStatusSuccess, resp.Action)
		assert.NotEmpty(t, resp.Data)
	})

	t.Run("可重试错误时 Release", func(t *testing.T) {
		resp := doJobReport(context.Background(),
			buildResp(errorutil.Retriable("query stage failed")),
			meta, model.ActionTypeLogDetect, testLogger{})
		assert.Equal(t, lmstfyx.JobRespStatusRelease, resp.Action)
	})

	t.Run("不可重试错误时 Bury", func(t *testing.T) {
		resp := doJobReport(context.Background(),
			buildResp(errorutil.NonRetriable("not enough training rows")),
			meta, model.ActionTypeLogDetect, testLogger{})
		assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
	})
}
