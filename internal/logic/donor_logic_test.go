package logic

import (
	"net/http"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/model"
)

func (s *LogicSuite) TestCreateDonorDefaults() {
	donor := &model.Donor{Name: "  John Smith ", Email: "John.Smith@Example.com"}
	s.Require().NoError(s.donors.CreateDonor(s.ctx, donor))

	s.NotZero(donor.Id)
	s.Equal("John Smith", donor.Name)
	s.Equal("john.smith@example.com", donor.Email)
	s.Equal(model.DonorStatusNew, donor.Status)
}

func (s *LogicSuite) TestCreateDonorValidation() {
	err := s.donors.CreateDonor(s.ctx, &model.Donor{Name: "No Email"})
	requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)

	err = s.donors.CreateDonor(s.ctx, &model.Donor{Name: "Bad", Email: "bad@example.com", Status: "vip"})
	requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)
}

func (s *LogicSuite) TestCreateDonorDuplicateEmail() {
	s.mustDonor("Jane", "jane@example.com")

	err := s.donors.CreateDonor(s.ctx, &model.Donor{Name: "Jane Again", Email: "JANE@example.com"})
	requireAppError(s.T(), err, http.StatusConflict, apperror.CodeConflict)
	s.Equal(int64(1), s.count(&model.Donor{}))
}

func (s *LogicSuite) TestListDonorsSearchAndStatus() {
	s.mustDonor("John Smith", "john@example.com")
	s.mustDonor("Sarah Johnson", "sarah@example.com")
	lapsed := &model.Donor{Name: "Michael Brown", Email: "mbrown@example.com", Status: model.DonorStatusLapsed}
	s.Require().NoError(s.donors.CreateDonor(s.ctx, lapsed))

	items, total, err := s.donors.ListDonors(s.ctx, DonorFilter{Search: "JOHN"}, NewPage(0, 0))
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(items, 2)

	items, total, err = s.donors.ListDonors(s.ctx, DonorFilter{Status: "lapsed"}, NewPage(0, 0))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("Michael Brown", items[0].Name)

	// 未知状态不作为过滤条件
	_, total, err = s.donors.ListDonors(s.ctx, DonorFilter{Status: "gold"}, NewPage(0, 0))
	s.Require().NoError(err)
	s.Equal(int64(3), total)

	// 通配符按字面匹配
	_, total, err = s.donors.ListDonors(s.ctx, DonorFilter{Search: "%"}, NewPage(0, 0))
	s.Require().NoError(err)
	s.Equal(int64(0), total)
}

func (s *LogicSuite) TestListDonorsPaginationAndCounts() {
	var first *model.Donor
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		d := s.mustDonor("Donor "+email, email)
		if i == 0 {
			first = d
		}
	}
	s.mustDonation(first.Id, nil, 10, "2024-01-01")
	s.mustDonation(first.Id, nil, 20, "2024-01-02")

	items, total, err := s.donors.ListDonors(s.ctx, DonorFilter{}, NewPage(2, 0))
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(items, 2)

	items, _, err = s.donors.ListDonors(s.ctx, DonorFilter{}, NewPage(2, 2))
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(first.Id, items[0].Id)
	s.Equal(int64(2), items[0].DonationCount)
}

func (s *LogicSuite) TestGetDonorDetail() {
	donor := s.mustDonor("John", "john@example.com")
	campaign := s.mustCampaign("Annual Fund", 1000)
	s.mustDonation(donor.Id, &campaign.Id, 100, "2024-01-10")
	s.mustDonation(donor.Id, nil, 50, "2024-02-10")

	detail, err := s.donors.GetDonor(s.ctx, donor.Id)
	s.Require().NoError(err)
	s.Require().Len(detail.Donations, 2)
	s.Equal(50.0, detail.Donations[0].Amount)
	s.Nil(detail.Donations[0].Campaign)
	s.Require().NotNil(detail.Donations[1].Campaign)
	s.Equal("Annual Fund", detail.Donations[1].Campaign.Name)
	s.Len(detail.Tasks, 2)

	_, err = s.donors.GetDonor(s.ctx, 9999)
	requireAppError(s.T(), err, http.StatusNotFound, apperror.CodeNotFound)
}

func (s *LogicSuite) TestUpdateDonorPartial() {
	donor := &model.Donor{Name: "Jane", Email: "jane@example.com", Phone: ptr("555-0100"), Notes: ptr("major donor")}
	s.Require().NoError(s.donors.CreateDonor(s.ctx, donor))

	updated, err := s.donors.UpdateDonor(s.ctx, donor.Id, DonorUpdate{Status: ptr("active")})
	s.Require().NoError(err)
	s.Equal(model.DonorStatusActive, updated.Status)
	s.Equal("Jane", updated.Name)
	s.Equal("jane@example.com", updated.Email)
	s.Require().NotNil(updated.Phone)
	s.Equal("555-0100", *updated.Phone)

	updated, err = s.donors.UpdateDonor(s.ctx, donor.Id, DonorUpdate{Phone: ptr("")})
	s.Require().NoError(err)
	s.Nil(updated.Phone)
	s.NotNil(updated.Notes)

	_, err = s.donors.UpdateDonor(s.ctx, donor.Id, DonorUpdate{Status: ptr("vip")})
	requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)
}

func (s *LogicSuite) TestUpdateDonorEmailConflict() {
	s.mustDonor("Jane", "jane@example.com")
	john := s.mustDonor("John", "john@example.com")

	_, err := s.donors.UpdateDonor(s.ctx, john.Id, DonorUpdate{Email: ptr("Jane@Example.com")})
	requireAppError(s.T(), err, http.StatusConflict, apperror.CodeConflict)

	// 保持原邮箱不算冲突
	_, err = s.donors.UpdateDonor(s.ctx, john.Id, DonorUpdate{Email: ptr("john@example.com")})
	s.NoError(err)
}

func (s *LogicSuite) TestDeleteDonorCascades() {
	donor := s.mustDonor("John", "john@example.com")
	other := s.mustDonor("Jane", "jane@example.com")
	campaign := s.mustCampaign("Annual Fund", 1000)

	s.mustDonation(donor.Id, &campaign.Id, 300, "2024-01-10")
	s.mustDonation(donor.Id, nil, 40, "2024-01-11")
	s.mustDonation(other.Id, &campaign.Id, 250, "2024-01-12")
	s.Equal(550.0, s.cachedRaised(campaign.Id))

	result, err := s.donors.DeleteDonor(s.ctx, donor.Id)
	s.Require().NoError(err)
	s.Equal(donor.Id, result.Id)
	s.Equal("John", result.Name)
	s.Equal(int64(2), result.Donations)
	s.Equal(int64(2), result.Tasks)

	s.Equal(int64(1), s.count(&model.Donation{}))
	s.Equal(int64(1), s.count(&model.Task{}))
	s.Equal(250.0, s.cachedRaised(campaign.Id))

	_, err = s.donors.DeleteDonor(s.ctx, donor.Id)
	requireAppError(s.T(), err, http.StatusNotFound, apperror.CodeNotFound)
}
