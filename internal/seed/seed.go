// Package seed loads demo data for local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/donorhub/dhs/internal/auth"
	"github.com/donorhub/dhs/internal/model"
	"gorm.io/gorm"
)

const (
	// DemoEmail 演示账号
	DemoEmail = "test@donorhub.com"
	// DemoPassword 演示账号密码
	DemoPassword = "password123"
)

// Summary 写入的记录数
type Summary struct {
	Users     int
	Donors    int
	Campaigns int
	Donations int
	Tasks     int
}

func date(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(value string) *time.Time {
	t := date(value)
	return &t
}

func str(s string) *string {
	return &s
}

// Run 清空业务表并写入演示数据，整个过程在一个事务中完成
func Run(ctx context.Context, db *gorm.DB) (*Summary, error) {
	summary := &Summary{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range []interface{}{&model.Task{}, &model.Donation{}, &model.Campaign{}, &model.Donor{}, &model.User{}} {
			if err := all.Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}

		hash, err := auth.HashPassword(DemoPassword)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		user := &model.User{Email: DemoEmail, PasswordHash: hash, Name: "Test User"}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create demo user: %w", err)
		}
		summary.Users = 1

		donors := []model.Donor{
			{Name: "Sarah Johnson", Email: "sarah.johnson@email.com", Phone: str("(555) 123-4567"), Status: model.DonorStatusActive, Notes: str("Major donor. Interested in education programs.")},
			{Name: "Michael Chen", Email: "michael.chen@email.com", Phone: str("(555) 234-5678"), Status: model.DonorStatusActive, Notes: str("Monthly recurring donor.")},
			{Name: "Emily Rodriguez", Email: "emily.r@email.com", Phone: str("(555) 345-6789"), Status: model.DonorStatusNew, Notes: str("First-time donor from holiday campaign.")},
			{Name: "David Thompson", Email: "david.t@email.com", Phone: str("(555) 456-7890"), Status: model.DonorStatusLapsed, Notes: str("Last donation over 1 year ago. Needs follow-up.")},
			{Name: "Lisa Anderson", Email: "lisa.anderson@email.com", Phone: str("(555) 567-8901"), Status: model.DonorStatusActive, Notes: str("Legacy donor. Member of planned giving circle.")},
			{Name: "James Wilson", Email: "james.w@email.com", Phone: str("(555) 678-9012"), Status: model.DonorStatusActive, Notes: str("Prefers check donations.")},
		}
		if err := tx.Create(&donors).Error; err != nil {
			return fmt.Errorf("create donors: %w", err)
		}
		summary.Donors = len(donors)

		campaigns := []model.Campaign{
			{Name: "Winter Appeal 2025", Description: str("Annual winter fundraising campaign to support our community programs."), Goal: 50000, StartDate: date("2025-11-01"), EndDate: datePtr("2026-01-31"), Status: model.CampaignStatusActive},
			{Name: "Spring Gala 2026", Description: str("Annual gala event and silent auction."), Goal: 75000, StartDate: date("2026-03-01"), EndDate: datePtr("2026-04-15"), Status: model.CampaignStatusUpcoming},
			{Name: "Summer Education Fund", Description: str("Scholarship fund for summer educational programs."), Goal: 30000, StartDate: date("2025-06-01"), EndDate: datePtr("2025-08-31"), Status: model.CampaignStatusCompleted},
		}
		if err := tx.Create(&campaigns).Error; err != nil {
			return fmt.Errorf("create campaigns: %w", err)
		}
		summary.Campaigns = len(campaigns)

		winter := campaigns[0].Id
		donations := []model.Donation{
			{Amount: 250, Date: date("2026-01-02"), Method: "credit_card", Recurring: true, Thanked: true, Notes: str("Monthly recurring donation"), DonorId: donors[1].Id, CampaignId: &winter},
			{Amount: 1000, Date: date("2026-01-05"), Method: "bank_transfer", Notes: str("First donation - needs thank you call"), DonorId: donors[2].Id, CampaignId: &winter},
			{Amount: 500, Date: date("2025-12-15"), Method: "credit_card", Thanked: true, DonorId: donors[0].Id, CampaignId: &winter},
			{Amount: 2000, Date: date("2025-12-28"), Method: "check", Thanked: true, Notes: str("Year-end contribution"), DonorId: donors[4].Id, CampaignId: &winter},
			{Amount: 300, Date: date("2025-11-30"), Method: "check", Thanked: true, Notes: str("General fund"), DonorId: donors[5].Id},
		}
		if err := tx.Create(&donations).Error; err != nil {
			return fmt.Errorf("create donations: %w", err)
		}
		summary.Donations = len(donations)

		// 缓存金额直接按写入的捐赠汇总
		raised := make(map[int64]float64)
		for _, d := range donations {
			if d.CampaignId != nil {
				raised[*d.CampaignId] += d.Amount
			}
		}
		for id, total := range raised {
			if err := tx.Model(&model.Campaign{}).Where("id = ?", id).Update("raised", total).Error; err != nil {
				return fmt.Errorf("set campaign %d raised: %w", id, err)
			}
		}

		tasks := []model.Task{
			{Type: model.TaskTypeThankYou, Description: "Send thank you letter for first donation", DueDate: datePtr("2026-01-08"), Priority: model.TaskPriorityHigh, DonorId: donors[2].Id},
			{Type: "follow-up", Description: "Follow-up call - lapsed donor outreach", DueDate: datePtr("2026-01-10"), Priority: model.TaskPriorityMedium, DonorId: donors[3].Id},
			{Type: "call", Description: "Quarterly update call with major donor", DueDate: datePtr("2026-01-15"), Priority: model.TaskPriorityHigh, DonorId: donors[0].Id},
			{Type: "email", Description: "Send planned giving information packet", DueDate: datePtr("2026-01-12"), Priority: model.TaskPriorityMedium, DonorId: donors[4].Id},
			{Type: model.TaskTypeThankYou, Description: "Monthly recurring donor appreciation email", DueDate: datePtr("2026-01-07"), Priority: model.TaskPriorityLow, Completed: true, DonorId: donors[1].Id},
		}
		if err := tx.Create(&tasks).Error; err != nil {
			return fmt.Errorf("create tasks: %w", err)
		}
		summary.Tasks = len(tasks)

		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
