package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/donorhub/dhs/internal/model"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DashboardTaskLimit 首页展示的待办与近期捐赠条数
const DashboardTaskLimit = 5

// DashboardLogic 首页汇总
type DashboardLogic struct {
	db *gorm.DB
}

// NewDashboardLogic 创建首页汇总逻辑
func NewDashboardLogic(db *gorm.DB) *DashboardLogic {
	return &DashboardLogic{db: db}
}

// DashboardSummary 首页汇总数据
type DashboardSummary struct {
	RaisedThisMonth    float64
	DonationsThisMonth int64
	DonorsByStatus     map[model.DonorStatus]int64
	ActiveCampaigns    []CampaignView
	PendingTasks       int64
	OverdueTasks       int64
	UpcomingTasks      []TaskView
	RecentDonations    []DonationView
}

// Summary 并发执行各项统计，任一失败则整体失败
func (d *DashboardLogic) Summary(ctx context.Context, now time.Time) (*DashboardSummary, error) {
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	summary := &DashboardSummary{DonorsByStatus: make(map[model.DonorStatus]int64, len(model.DonorStatuses))}
	for _, s := range model.DonorStatuses {
		summary.DonorsByStatus[s] = 0
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var row struct {
			Total float64
			Cnt   int64
		}
		if err := d.db.WithContext(ctx).Model(&model.Donation{}).
			Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS cnt").
			Where("date >= ? AND date < ?", monthStart, nextMonth).
			Scan(&row).Error; err != nil {
			return fmt.Errorf("sum monthly donations: %w", err)
		}
		summary.RaisedThisMonth = row.Total
		summary.DonationsThisMonth = row.Cnt
		return nil
	})

	// 各 goroutine 只写各自的字段，map 由单个 goroutine 独占
	g.Go(func() error {
		var rows []struct {
			Status model.DonorStatus
			Cnt    int64
		}
		if err := d.db.WithContext(ctx).Model(&model.Donor{}).
			Select("status, COUNT(*) AS cnt").
			Group("status").
			Scan(&rows).Error; err != nil {
			return fmt.Errorf("count donors by status: %w", err)
		}
		for _, row := range rows {
			summary.DonorsByStatus[row.Status] = row.Cnt
		}
		return nil
	})

	g.Go(func() error {
		var campaigns []model.Campaign
		if err := d.db.WithContext(ctx).
			Where("status = ?", model.CampaignStatusActive).
			Order("created_at DESC").Order("id DESC").
			Find(&campaigns).Error; err != nil {
			return fmt.Errorf("list active campaigns: %w", err)
		}
		views, err := (&CampaignLogic{db: d.db}).withTotals(ctx, campaigns)
		if err != nil {
			return err
		}
		summary.ActiveCampaigns = views
		return nil
	})

	g.Go(func() error {
		pending := d.db.WithContext(ctx).Model(&model.Task{}).Where("completed = ?", false)
		if err := pending.Session(&gorm.Session{}).Count(&summary.PendingTasks).Error; err != nil {
			return fmt.Errorf("count pending tasks: %w", err)
		}
		if err := d.db.WithContext(ctx).Model(&model.Task{}).
			Where("completed = ? AND due_date IS NOT NULL AND due_date < ?", false, today).
			Count(&summary.OverdueTasks).Error; err != nil {
			return fmt.Errorf("count overdue tasks: %w", err)
		}

		var tasks []model.Task
		if err := orderTasks(d.db.WithContext(ctx).Where("completed = ?", false)).
			Limit(DashboardTaskLimit).
			Find(&tasks).Error; err != nil {
			return fmt.Errorf("list upcoming tasks: %w", err)
		}
		views, err := attachTaskDonors(ctx, d.db, tasks)
		if err != nil {
			return err
		}
		summary.UpcomingTasks = views
		return nil
	})

	g.Go(func() error {
		var donations []model.Donation
		if err := d.db.WithContext(ctx).
			Order("date DESC").Order("id DESC").
			Limit(DashboardTaskLimit).
			Find(&donations).Error; err != nil {
			return fmt.Errorf("list recent donations: %w", err)
		}
		views, err := buildDonationViews(ctx, d.db, donations)
		if err != nil {
			return err
		}
		summary.RecentDonations = views
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
