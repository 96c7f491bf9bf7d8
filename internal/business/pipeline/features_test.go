package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarFeatures(t *testing.T) {
	// 2026-08-30 是周日，Weekday 应为 0
	ts := time.Date(2026, 8, 30, 15, 42, 0, 0, time.UTC)
	got := CalendarFeatures(ts)

	require.Len(t, got, FeatureDim)
	assert.Equal(t, []float64{2026, 8, 30, 0, 15}, got)

	// 周一为 1
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1.0, CalendarFeatures(monday)[3])
}

func TestSeriesFrame(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("BuildFeatures 填充每一行", func(t *testing.T) {
		frame := NewSeriesFrame(3)
		for i := 0; i < 3; i++ {
			frame.Append(base.Add(time.Duration(i)*time.Hour), "AppTraces", float64(i))
		}

		frame.BuildFeatures()
		require.Len(t, frame.Features, 3)
		assert.Equal(t, CalendarFeatures(base), frame.Features[0])
		assert.Equal(t, 1.0, frame.Features[1][4]) // 第二行的小时特征
	})

	t.Run("MaxTime 返回最大时间戳", func(t *testing.T) {
		frame := NewSeriesFrame(3)
		frame.Append(base.Add(2*time.Hour), "A", 0)
		frame.Append(base, "A", 0)
		frame.Append(base.Add(time.Hour), "A", 0)

		assert.Equal(t, base.Add(2*time.Hour), frame.MaxTime())
	})

	t.Run("空帧 MaxTime 返回零值", func(t *testing.T) {
		assert.True(t, NewSeriesFrame(0).MaxTime().IsZero())
	})
}

func TestSplitFrame(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	frame := NewSeriesFrame(10)
	for i := 0; i < 10; i++ {
		frame.Append(base.Add(time.Duration(i)*time.Hour), "AppTraces", float64(i))
	}
	frame.BuildFeatures()

	cutoff := base.Add(7 * time.Hour)
	train, score := splitFrame(frame, cutoff)

	// cutoff 之前训练（严格早于），其余打分
	assert.Equal(t, 7, train.Len())
	assert.Equal(t, 3, score.Len())
	assert.Equal(t, base.Add(7*time.Hour), score.Times[0])

	// 特征随行一起切分
	require.Len(t, train.Features, 7)
	require.Len(t, score.Features, 3)
	assert.Equal(t, frame.Features[7], score.Features[0])
}
