package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

// mockAPIClient DetectionAPIClient 的 mock 实现
type mockAPIClient struct {
	mock.Mock
}

func (m *mockAPIClient) TriggerDetection(target *DetectionTarget) error {
	args := m.Called(target)
	return args.Error(0)
}

func TestServiceStart(t *testing.T) {
	t.Run("只注册启用的调度规则", func(t *testing.T) {
		schedules := []ScheduleConfig{
			{Name: "prod-daily", Cron: "0 2 * * *", WorkspaceID: "ws-prod", Enabled: true},
			{Name: "staging-daily", Cron: "0 3 * * *", WorkspaceID: "ws-staging", Enabled: false},
			{Name: "demo-hourly", Cron: "@hourly", WorkspaceID: "DEMO_WORKSPACE", Enabled: true},
		}

		svc := NewService(&mockAPIClient{}, schedules, nopLogger{})
		require.NoError(t, svc.Start())
		defer svc.Stop()

		assert.Equal(t, 2, svc.Entries())
	})

	t.Run("非法 cron 表达式报错", func(t *testing.T) {
		schedules := []ScheduleConfig{
			{Name: "broken", Cron: "not a cron", WorkspaceID: "ws-1", Enabled: true},
		}

		svc := NewService(&mockAPIClient{}, schedules, nopLogger{})
		assert.ErrorContains(t, svc.Start(), "broken")
	})

	t.Run("没有启用的规则也能启动", func(t *testing.T) {
		svc := NewService(&mockAPIClient{}, nil, nopLogger{})
		require.NoError(t, svc.Start())
		defer svc.Stop()
		assert.Equal(t, 0, svc.Entries())
	})
}

func TestRunDetectionTask(t *testing.T) {
	schedule := &ScheduleConfig{
		Name:        "prod-daily",
		WorkspaceID: "ws-prod",
		Category:    "AppTraces",
		SpanDays:    30,
		ScoreDays:   7,
	}

	t.Run("调度参数透传给客户端", func(t *testing.T) {
		client := &mockAPIClient{}
		client.On("TriggerDetection", &DetectionTarget{
			WorkspaceID: "ws-prod",
			Category:    "AppTraces",
			SpanDays:    30,
			ScoreDays:   7,
		}).Return(nil).Once()

		svc := NewService(client, nil, nopLogger{})
		svc.runDetectionTask(schedule)

		client.AssertExpectations(t)
	})

	t.Run("触发失败只记录不中断", func(t *testing.T) {
		client := &mockAPIClient{}
		client.On("TriggerDetection", mock.Anything).Return(errors.New("api unavailable")).Once()

		svc := NewService(client, nil, nopLogger{})
		svc.runDetectionTask(schedule)

		client.AssertExpectations(t)
	})
}
