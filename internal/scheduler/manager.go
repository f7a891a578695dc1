package scheduler

import (
	"fmt"

	"github.com/donorhub/dhs/internal/config"
	"github.com/donorhub/dhs/internal/export"
	"github.com/donorhub/dhs/internal/logger"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Job 定时任务
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	config    *config.Config
	exporter  *export.Exporter
}

// NewManager 创建新的任务管理器，exporter 为 nil 时不注册导出任务
func NewManager(db *gorm.DB, cfg *config.Config, exporter *export.Exporter) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Manager{
		scheduler: s,
		db:        db,
		config:    cfg,
		exporter:  exporter,
	}, nil
}

// Start 注册所有任务并启动调度器
func (m *Manager) Start() error {
	for _, job := range m.Jobs() {
		if err := m.register(job); err != nil {
			return err
		}
	}

	m.scheduler.Start()

	logger.Info("Task manager started successfully")
	return nil
}

// Jobs 按配置返回需要注册的任务
func (m *Manager) Jobs() []Job {
	jobs := []Job{
		NewCampaignStatusJob(m.db, m.config),
		NewRaisedReconcileJob(m.db, m.config),
	}
	if m.exporter != nil {
		jobs = append(jobs, NewDonationExportJob(m.exporter, m.config))
	}
	return jobs
}

// register 注册任务，同一任务不会并发执行
func (m *Manager) register(job Job) error {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.GetName(), err)
	}
	logger.Info("Registered job %s", job.GetName())
	return nil
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
