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

// RaisedReconcileJob 用捐赠汇总修正活动缓存金额，弥补丢失的后置钩子
type RaisedReconcileJob struct {
	campaigns *logic.CampaignLogic
	config    *config.Config
}

// NewRaisedReconcileJob 创建对账任务
func NewRaisedReconcileJob(db *gorm.DB, cfg *config.Config) *RaisedReconcileJob {
	return &RaisedReconcileJob{
		campaigns: logic.NewCampaignLogic(db),
		config:    cfg,
	}
}

// GetName 获取任务名称
func (j *RaisedReconcileJob) GetName() string {
	return "campaign_raised_reconciler"
}

// GetSchedule 获取调度配置
func (j *RaisedReconcileJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *RaisedReconcileJob) Execute() {
	corrections, err := j.campaigns.ReconcileRaised(context.Background())
	if err != nil {
		logger.Error("Failed to reconcile campaign totals: %v", err)
		return
	}
	if len(corrections) > 0 {
		logger.Info("Campaign reconcile completed. Corrected %d campaigns", len(corrections))
	}
}
