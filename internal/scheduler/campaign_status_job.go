package scheduler

import (
	"context"
	"time"

	"github.com/donorhub/dhs/internal/config"
	"github.com/donorhub/dhs/internal/logger"
	"github.com/donorhub/dhs/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// CampaignStatusJob 活动状态更新任务
type CampaignStatusJob struct {
	campaigns *logic.CampaignLogic
	config    *config.Config
	now       func() time.Time
}

// NewCampaignStatusJob 创建活动状态更新任务
func NewCampaignStatusJob(db *gorm.DB, cfg *config.Config) *CampaignStatusJob {
	return &CampaignStatusJob{
		campaigns: logic.NewCampaignLogic(db),
		config:    cfg,
		now:       time.Now,
	}
}

// GetName 获取任务名称
func (j *CampaignStatusJob) GetName() string {
	return "campaign_status_updater"
}

// GetSchedule 获取调度配置
func (j *CampaignStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *CampaignStatusJob) Execute() {
	logger.Info("Starting campaign status update task")

	activated, completed, err := j.campaigns.UpdateStatuses(context.Background(), j.now())
	if err != nil {
		logger.Error("Failed to update campaign statuses: %v", err)
		return
	}

	logger.Info("Campaign status update completed. Activated %d, completed %d", activated, completed)
}
