package logic

import (
	"net/http"
	"time"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/event"
	"github.com/donorhub/dhs/internal/model"
)

func (s *LogicSuite) TestCreateDonationUnknownDonor() {
	_, err := s.donations.CreateDonation(s.ctx, DonationInput{
		Amount:  100,
		Date:    date("2024-01-15"),
		Method:  "Check",
		DonorId: 42,
	})
	requireAppError(s.T(), err, http.StatusNotFound, apperror.CodeNotFound)
	s.Equal(int64(0), s.count(&model.Donation{}))
}

func (s *LogicSuite) TestCreateDonationUnknownCampaign() {
	donor := s.mustDonor("John", "john@example.com")

	_, err := s.donations.CreateDonation(s.ctx, DonationInput{
		Amount:     100,
		Date:       date("2024-01-15"),
		Method:     "Check",
		DonorId:    donor.Id,
		CampaignId: ptr(int64(77)),
	})
	requireAppError(s.T(), err, http.StatusNotFound, apperror.CodeNotFound)
	s.Equal(int64(0), s.count(&model.Donation{}))
}

func (s *LogicSuite) TestCreateDonationValidation() {
	donor := s.mustDonor("John", "john@example.com")

	_, err := s.donations.CreateDonation(s.ctx, DonationInput{Amount: 0, Date: date("2024-01-15"), Method: "Check", DonorId: donor.Id})
	requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)

	_, err = s.donations.CreateDonation(s.ctx, DonationInput{Amount: 10, Date: date("2024-01-15"), Method: " ", DonorId: donor.Id})
	requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)
}

func (s *LogicSuite) TestCreateDonationSchedulesThankYouTask() {
	donor := s.mustDonor("John", "john@example.com")
	donation := s.mustDonation(donor.Id, nil, 500, "2024-01-15")

	s.False(donation.Thanked)
	s.Require().NotNil(donation.Donor)
	s.Equal("john@example.com", donation.Donor.Email)

	var tasks []model.Task
	s.Require().NoError(s.db.Where("donor_id = ?", donor.Id).Find(&tasks).Error)
	s.Require().Len(tasks, 1)
	task := tasks[0]
	s.Equal(model.TaskTypeThankYou, task.Type)
	s.Equal(event.ThankYouDescription, task.Description)
	s.Equal(model.TaskPriorityHigh, task.Priority)
	s.False(task.Completed)
	s.Require().NotNil(task.DueDate)
	s.WithinDuration(donation.CreatedAt.Add(7*24*time.Hour), *task.DueDate, time.Second)
}

func (s *LogicSuite) TestCampaignRaisedFollowsDonations() {
	donor := s.mustDonor("John", "john@example.com")
	campaign := s.mustCampaign("Spring Appeal", 1000)

	first := s.mustDonation(donor.Id, &campaign.Id, 300, "2024-03-01")
	s.mustDonation(donor.Id, &campaign.Id, 250, "2024-03-02")
	s.Equal(550.0, s.cachedRaised(campaign.Id))

	detail, err := s.campaigns.GetCampaign(s.ctx, campaign.Id)
	s.Require().NoError(err)
	s.Equal(550.0, detail.DonationTotal)
	s.Equal(int64(2), detail.DonationCount)
	s.Len(detail.Donations, 2)

	_, err = s.donations.UpdateDonation(s.ctx, first.Id, DonationUpdate{Amount: ptr(400.0)})
	s.Require().NoError(err)
	s.dispatcher.Wait()
	s.Equal(650.0, s.cachedRaised(campaign.Id))

	deleted, err := s.donations.DeleteDonation(s.ctx, first.Id)
	s.Require().NoError(err)
	s.Equal(400.0, deleted.Amount)
	s.dispatcher.Wait()
	s.Equal(250.0, s.cachedRaised(campaign.Id))
}

func (s *LogicSuite) TestUpdateDonationMovesCampaign() {
	donor := s.mustDonor("John", "john@example.com")
	spring := s.mustCampaign("Spring", 1000)
	fall := s.mustCampaign("Fall", 1000)
	donation := s.mustDonation(donor.Id, &spring.Id, 100, "2024-03-01")

	updated, err := s.donations.UpdateDonation(s.ctx, donation.Id, DonationUpdate{CampaignId: ptr(fall.Id)})
	s.Require().NoError(err)
	s.dispatcher.Wait()
	s.Require().NotNil(updated.Campaign)
	s.Equal("Fall", updated.Campaign.Name)
	s.Equal(0.0, s.cachedRaised(spring.Id))
	s.Equal(100.0, s.cachedRaised(fall.Id))

	// campaignId 为 0 解除关联
	updated, err = s.donations.UpdateDonation(s.ctx, donation.Id, DonationUpdate{CampaignId: ptr(int64(0))})
	s.Require().NoError(err)
	s.dispatcher.Wait()
	s.Nil(updated.CampaignId)
	s.Equal(0.0, s.cachedRaised(fall.Id))

	_, err = s.donations.UpdateDonation(s.ctx, donation.Id, DonationUpdate{CampaignId: ptr(int64(999))})
	requireAppError(s.T(), err, http.StatusNotFound, apperror.CodeNotFound)
}

func (s *LogicSuite) TestThankedIsOneWay() {
	donor := s.mustDonor("John", "john@example.com")
	donation := s.mustDonation(donor.Id, nil, 100, "2024-03-01")

	updated, err := s.donations.UpdateDonation(s.ctx, donation.Id, DonationUpdate{Thanked: ptr(true)})
	s.Require().NoError(err)
	s.True(updated.Thanked)

	_, err = s.donations.UpdateDonation(s.ctx, donation.Id, DonationUpdate{Thanked: ptr(false)})
	requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)
}

func (s *LogicSuite) TestThankDonationCompletesOldestThankYouTask() {
	donor := s.mustDonor("John", "john@example.com")
	first := s.mustDonation(donor.Id, nil, 100, "2024-03-01")
	s.mustDonation(donor.Id, nil, 200, "2024-03-02")

	thanked, err := s.donations.ThankDonation(s.ctx, first.Id)
	s.Require().NoError(err)
	s.True(thanked.Thanked)

	var pending int64
	s.Require().NoError(s.db.Model(&model.Task{}).Where("donor_id = ? AND completed = ?", donor.Id, false).Count(&pending).Error)
	s.Equal(int64(1), pending)

	// 重复确认不会再完成其他任务
	_, err = s.donations.ThankDonation(s.ctx, first.Id)
	s.Require().NoError(err)
	s.Require().NoError(s.db.Model(&model.Task{}).Where("donor_id = ? AND completed = ?", donor.Id, false).Count(&pending).Error)
	s.Equal(int64(1), pending)

	_, err = s.donations.ThankDonation(s.ctx, 9999)
	requireAppError(s.T(), err, http.StatusNotFound, apperror.CodeNotFound)
}

func (s *LogicSuite) TestListDonationsFilters() {
	john := s.mustDonor("John", "john@example.com")
	jane := s.mustDonor("Jane", "jane@example.com")
	campaign := s.mustCampaign("Annual", 1000)
	s.mustDonation(john.Id, &campaign.Id, 100, "2024-01-01")
	s.mustDonation(john.Id, nil, 200, "2024-02-01")
	_, err := s.donations.CreateDonation(s.ctx, DonationInput{Amount: 300, Date: date("2024-03-01"), Method: "Bank Transfer", DonorId: jane.Id})
	s.Require().NoError(err)
	s.dispatcher.Wait()

	items, total, err := s.donations.ListDonations(s.ctx, DonationFilter{}, NewPage(0, 0))
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Equal(300.0, items[0].Amount)
	s.Equal(100.0, items[2].Amount)

	_, total, err = s.donations.ListDonations(s.ctx, DonationFilter{DonorId: ptr(john.Id)}, NewPage(0, 0))
	s.Require().NoError(err)
	s.Equal(int64(2), total)

	items, total, err = s.donations.ListDonations(s.ctx, DonationFilter{CampaignId: ptr(campaign.Id)}, NewPage(0, 0))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().NotNil(items[0].Campaign)
	s.Equal(1000.0, items[0].Campaign.Goal)

	items, total, err = s.donations.ListDonations(s.ctx, DonationFilter{Method: "transfer"}, NewPage(0, 0))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("Jane", items[0].Donor.Name)
}
