package logic

import (
	"time"

	"github.com/donorhub/dhs/internal/model"
)

func (s *LogicSuite) TestDashboardSummary() {
	john := s.mustDonor("John", "john@example.com")
	lapsed := &model.Donor{Name: "Lapsed", Email: "lapsed@example.com", Status: model.DonorStatusLapsed}
	s.Require().NoError(s.donors.CreateDonor(s.ctx, lapsed))
	campaign := s.mustCampaign("Spring", 1000)

	s.mustDonation(john.Id, &campaign.Id, 300, "2024-06-03")
	s.mustDonation(john.Id, nil, 50, "2024-06-20")
	s.mustDonation(lapsed.Id, nil, 999, "2024-05-31")

	overdue := date("2024-06-01")
	_, err := s.tasks.CreateTask(s.ctx, TaskInput{Type: "call", Description: "Overdue call", DueDate: &overdue, DonorId: john.Id})
	s.Require().NoError(err)

	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	summary, err := s.dashboard.Summary(s.ctx, now)
	s.Require().NoError(err)

	s.Equal(350.0, summary.RaisedThisMonth)
	s.Equal(int64(2), summary.DonationsThisMonth)
	s.Equal(int64(1), summary.DonorsByStatus[model.DonorStatusNew])
	s.Equal(int64(1), summary.DonorsByStatus[model.DonorStatusLapsed])
	s.Equal(int64(0), summary.DonorsByStatus[model.DonorStatusActive])

	s.Require().Len(summary.ActiveCampaigns, 1)
	s.Equal(300.0, summary.ActiveCampaigns[0].DonationTotal)

	// 三个感谢任务加一个逾期任务
	s.Equal(int64(4), summary.PendingTasks)
	s.Equal(int64(1), summary.OverdueTasks)
	s.Require().Len(summary.UpcomingTasks, 4)
	s.Equal("Overdue call", summary.UpcomingTasks[0].Description)

	s.Require().Len(summary.RecentDonations, 3)
	s.Equal(50.0, summary.RecentDonations[0].Amount)
}
