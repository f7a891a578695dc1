package logic

import (
	"net/http"
	"time"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/model"
)

func (s *LogicSuite) TestCreateCampaign() {
	end := date("2024-12-31")
	campaign, err := s.campaigns.CreateCampaign(s.ctx, CampaignInput{
		Name:        "Year-End Appeal",
		Description: "Holiday giving",
		Goal:        50000,
		StartDate:   date("2024-11-01"),
		EndDate:     &end,
	})
	s.Require().NoError(err)
	s.Equal(model.CampaignStatusActive, campaign.Status)
	s.Equal(0.0, campaign.Raised)
	s.Equal(0.0, campaign.DonationTotal)
	s.Require().NotNil(campaign.Description)
	s.Equal("Holiday giving", *campaign.Description)
}

func (s *LogicSuite) TestCreateCampaignValidation() {
	before := date("2024-10-01")
	tests := []struct {
		name  string
		input CampaignInput
	}{
		{"missing name", CampaignInput{Goal: 10, StartDate: date("2024-11-01")}},
		{"zero goal", CampaignInput{Name: "X", StartDate: date("2024-11-01")}},
		{"missing start", CampaignInput{Name: "X", Goal: 10}},
		{"end before start", CampaignInput{Name: "X", Goal: 10, StartDate: date("2024-11-01"), EndDate: &before}},
		{"unknown status", CampaignInput{Name: "X", Goal: 10, StartDate: date("2024-11-01"), Status: "archived"}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.campaigns.CreateCampaign(s.ctx, tt.input)
			requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)
		})
	}
	s.Equal(int64(0), s.count(&model.Campaign{}))
}

func (s *LogicSuite) TestUpdateCampaign() {
	campaign := s.mustCampaign("Spring", 1000)

	updated, err := s.campaigns.UpdateCampaign(s.ctx, campaign.Id, CampaignUpdate{
		Status:  ptr("paused"),
		EndDate: ptr("2024-06-30"),
	})
	s.Require().NoError(err)
	s.Equal(model.CampaignStatusPaused, updated.Status)
	s.Equal("Spring", updated.Name)
	s.Require().NotNil(updated.EndDate)

	updated, err = s.campaigns.UpdateCampaign(s.ctx, campaign.Id, CampaignUpdate{EndDate: ptr("")})
	s.Require().NoError(err)
	s.Nil(updated.EndDate)

	_, err = s.campaigns.UpdateCampaign(s.ctx, campaign.Id, CampaignUpdate{EndDate: ptr("2023-01-01")})
	requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)

	_, err = s.campaigns.UpdateCampaign(s.ctx, campaign.Id, CampaignUpdate{Goal: ptr(-5.0)})
	requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)

	_, err = s.campaigns.UpdateCampaign(s.ctx, 12345, CampaignUpdate{Name: ptr("X")})
	requireAppError(s.T(), err, http.StatusNotFound, apperror.CodeNotFound)
}

func (s *LogicSuite) TestListCampaignsComputesTotals() {
	donor := s.mustDonor("John", "john@example.com")
	spring := s.mustCampaign("Spring", 1000)
	s.mustCampaign("Fall", 2000)
	s.mustDonation(donor.Id, &spring.Id, 300, "2024-03-01")
	s.mustDonation(donor.Id, &spring.Id, 250, "2024-03-02")

	// 缓存值被破坏时读取结果仍以捐赠汇总为准
	s.Require().NoError(s.db.Model(&model.Campaign{}).Where("id = ?", spring.Id).Update("raised", 1).Error)

	items, total, err := s.campaigns.ListCampaigns(s.ctx, "", NewPage(0, 0))
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	for _, item := range items {
		if item.Id == spring.Id {
			s.Equal(550.0, item.DonationTotal)
			s.Equal(int64(2), item.DonationCount)
		} else {
			s.Equal(0.0, item.DonationTotal)
			s.Equal(int64(0), item.DonationCount)
		}
	}

	_, total, err = s.campaigns.ListCampaigns(s.ctx, "completed", NewPage(0, 0))
	s.Require().NoError(err)
	s.Equal(int64(0), total)
}

func (s *LogicSuite) TestAdjustRaisedUnknownCampaign() {
	err := s.campaigns.AdjustRaised(s.ctx, 404, 10)
	requireAppError(s.T(), err, http.StatusNotFound, apperror.CodeNotFound)
}

func (s *LogicSuite) TestReconcileRaised() {
	donor := s.mustDonor("John", "john@example.com")
	spring := s.mustCampaign("Spring", 1000)
	fall := s.mustCampaign("Fall", 1000)
	s.mustDonation(donor.Id, &spring.Id, 300, "2024-03-01")
	s.Require().NoError(s.db.Model(&model.Campaign{}).Where("id = ?", fall.Id).Update("raised", 75).Error)

	corrections, err := s.campaigns.ReconcileRaised(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(corrections, 1)
	s.Equal(fall.Id, corrections[0].CampaignId)
	s.Equal(75.0, corrections[0].Cached)
	s.Equal(0.0, corrections[0].Actual)
	s.Equal(0.0, s.cachedRaised(fall.Id))
	s.Equal(300.0, s.cachedRaised(spring.Id))

	corrections, err = s.campaigns.ReconcileRaised(s.ctx)
	s.Require().NoError(err)
	s.Empty(corrections)
}

func (s *LogicSuite) TestUpdateStatuses() {
	pastEnd := date("2024-05-31")
	ended, err := s.campaigns.CreateCampaign(s.ctx, CampaignInput{Name: "Ended", Goal: 10, StartDate: date("2024-05-01"), EndDate: &pastEnd})
	s.Require().NoError(err)
	starting, err := s.campaigns.CreateCampaign(s.ctx, CampaignInput{Name: "Starting", Goal: 10, StartDate: date("2024-06-10"), Status: "upcoming"})
	s.Require().NoError(err)
	future, err := s.campaigns.CreateCampaign(s.ctx, CampaignInput{Name: "Future", Goal: 10, StartDate: date("2024-09-01"), Status: "upcoming"})
	s.Require().NoError(err)
	endsToday := date("2024-06-15")
	running, err := s.campaigns.CreateCampaign(s.ctx, CampaignInput{Name: "Running", Goal: 10, StartDate: date("2024-06-01"), EndDate: &endsToday})
	s.Require().NoError(err)

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	activated, completed, err := s.campaigns.UpdateStatuses(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(int64(1), activated)
	s.Equal(int64(1), completed)

	statusOf := func(id int64) model.CampaignStatus {
		var c model.Campaign
		s.Require().NoError(s.db.First(&c, id).Error)
		return c.Status
	}
	s.Equal(model.CampaignStatusCompleted, statusOf(ended.Id))
	s.Equal(model.CampaignStatusActive, statusOf(starting.Id))
	s.Equal(model.CampaignStatusUpcoming, statusOf(future.Id))
	s.Equal(model.CampaignStatusActive, statusOf(running.Id))
}
