package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"ladp/internal/apiserver/pkg/logger"
)

// Service 检测调度服务
// 按配置的 cron 规则定期对工作区发起检测任务
type Service struct {
	cronRunner *cron.Cron
	apiClient  DetectionAPIClient
	schedules  []ScheduleConfig
	logger     logger.Logger
}

// NewService 创建调度服务实例
func NewService(apiClient DetectionAPIClient, schedules []ScheduleConfig, log logger.Logger) *Service {
	return &Service{
		apiClient: apiClient,
		schedules: schedules,
		logger:    log,
		cronRunner: cron.New(
			cron.WithChain(
				cron.SkipIfStillRunning(cron.DefaultLogger),
				cron.Recover(cron.DefaultLogger),
			),
		),
	}
}

// Start 注册所有启用的调度规则并启动 cron（非阻塞）
func (s *Service) Start() error {
	registered := 0
	for _, schedule := range s.schedules {
		if !schedule.Enabled {
			s.logger.Info("Schedule disabled, skipping", "name", schedule.Name)
			continue
		}

		// 捕获循环变量给闭包
		current := schedule
		entryID, err := s.cronRunner.AddFunc(current.Cron, func() {
			s.runDetectionTask(&current)
		})
		if err != nil {
			return fmt.Errorf("add cron job %q with spec %q failed: %w", current.Name, current.Cron, err)
		}

		s.logger.Info("Schedule registered",
			"name", current.Name,
			"entry_id", int(entryID),
			"cron", current.Cron,
			"workspace_id", current.WorkspaceID,
		)
		registered++
	}

	s.logger.Info("Scheduler started", "schedules", registered)
	s.cronRunner.Start()
	return nil
}

// Stop 停止 cron，等待运行中的任务结束
func (s *Service) Stop() {
	ctx := s.cronRunner.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// Entries 当前注册的 cron 条目数
func (s *Service) Entries() int {
	return len(s.cronRunner.Entries())
}

// runDetectionTask 执行一次调度触发
func (s *Service) runDetectionTask(schedule *ScheduleConfig) {
	s.logger.Info("Triggering scheduled detection",
		"name", schedule.Name,
		"workspace_id", schedule.WorkspaceID,
	)

	target := &DetectionTarget{
		WorkspaceID: schedule.WorkspaceID,
		Category:    schedule.Category,
		SpanDays:    schedule.SpanDays,
		ScoreDays:   schedule.ScoreDays,
	}

	if err := s.apiClient.TriggerDetection(target); err != nil {
		s.logger.Error("Scheduled detection failed",
			"name", schedule.Name,
			"workspace_id", schedule.WorkspaceID,
			"error", err,
		)
		return
	}

	s.logger.Info("Scheduled detection triggered",
		"name", schedule.Name,
		"workspace_id", schedule.WorkspaceID,
	)
}
