package etjob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ladp/common/model"
)

func TestNewDetectionJob(t *testing.T) {
	t.Run("合法参数创建 RUNNING 任务", func(t *testing.T) {
		job, err := NewDetectionJob("job-1", "ws-1", "AppTraces", 30, 7)
		require.NoError(t, err)

		assert.Equal(t, JobStatusRunning, job.Status)
		assert.False(t, job.CreatedAt.IsZero())
		assert.Empty(t, job.ErrorMessage)
		assert.Nil(t, job.DetectResult)
	})

	t.Run("业务规则校验", func(t *testing.T) {
		cases := []struct {
			name                string
			id, ws              string
			spanDays, scoreDays int
			wantErr             error
		}{
			{"空任务ID", "", "ws-1", 30, 7, ErrInvalidJobID},
			{"空工作区", "job-1", "", 30, 7, ErrInvalidWorkspaceID},
			{"非正跨度", "job-1", "ws-1", 0, 7, ErrInvalidSpanDays},
			{"打分窗口为零", "job-1", "ws-1", 30, 0, ErrInvalidScoreDays},
			{"打分窗口等于跨度", "job-1", "ws-1", 7, 7, ErrInvalidScoreDays},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewDetectionJob(tc.id, tc.ws, "", tc.spanDays, tc.scoreDays)
				assert.ErrorIs(t, err, tc.wantErr)
			})
		}
	})
}

func TestUpdateDetectResult(t *testing.T) {
	job, err := NewDetectionJob("job-1", "ws-1", "", 30, 7)
	require.NoError(t, err)

	t.Run("nil 结果报错", func(t *testing.T) {
		assert.ErrorIs(t, job.UpdateDetectResult(nil), ErrNilDetectResult)
		assert.Equal(t, JobStatusRunning, job.Status)
	})

	t.Run("更新后状态为 DETECTED", func(t *testing.T) {
		result := &model.DetectionResultData{
			Summary: &model.DetectionSummary{ModelName: "ridge", AnomalyCount: 2},
		}
		require.NoError(t, job.UpdateDetectResult(result))
		assert.Equal(t, JobStatusDetected, job.Status)
		assert.Same(t, result, job.DetectResult)
	})
}

func TestMarkAsFailed(t *testing.T) {
	job, err := NewDetectionJob("job-1", "ws-1", "", 30, 7)
	require.NoError(t, err)

	job.MarkAsFailed("not enough training rows")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "not enough training rows", job.ErrorMessage)
}
