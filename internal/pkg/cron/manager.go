package cron

import (
	"BuilderCentral/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const toolIndexSpec = "@every 1m"

type Manager struct {
	engine       *cron.Cron
	toolIndexJob *job.ToolIndexJob
}

func NewCronManager(toolIndexJob *job.ToolIndexJob) *Manager {
	return &Manager{
		engine:       cron.New(cron.WithSeconds()),
		toolIndexJob: toolIndexJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(toolIndexSpec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.toolIndexJob)); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 停止调度并等待运行中的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
