package scheduler

import (
	"context"
	"time"

	"github.com/donorhub/dhs/internal/config"
	"github.com/donorhub/dhs/internal/export"
	"github.com/donorhub/dhs/internal/logger"
	"github.com/go-co-op/gocron/v2"
)

// exportTimeout 单次导出的时间上限
const exportTimeout = 10 * time.Minute

// DonationExportJob 定期导出捐赠快照
type DonationExportJob struct {
	exporter *export.Exporter
	config   *config.Config
}

// NewDonationExportJob 创建导出任务
func NewDonationExportJob(exporter *export.Exporter, cfg *config.Config) *DonationExportJob {
	return &DonationExportJob{
		exporter: exporter,
		config:   cfg,
	}
}

// GetName 获取任务名称
func (j *DonationExportJob) GetName() string {
	return "donation_exporter"
}

// GetSchedule 获取调度配置
func (j *DonationExportJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Export.Interval) * time.Second)
}

// Execute 执行任务
func (j *DonationExportJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	if _, err := j.exporter.Run(ctx); err != nil {
		logger.Error("Donation export failed: %v", err)
	}
}
