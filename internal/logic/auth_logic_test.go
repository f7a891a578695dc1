package logic

import (
	"net/http"

	"github.com/donorhub/dhs/internal/apperror"
)

func (s *LogicSuite) TestRegisterAndLogin() {
	user, err := s.auth.Register(s.ctx, "Test@DonorHub.com", "password123", "Test User")
	s.Require().NoError(err)
	s.Equal("test@donorhub.com", user.Email)
	s.NotEqual("password123", user.PasswordHash)

	_, err = s.auth.Register(s.ctx, "test@donorhub.com", "another", "Dup")
	requireAppError(s.T(), err, http.StatusConflict, apperror.CodeConflict)

	logged, err := s.auth.Login(s.ctx, "test@donorhub.com", "password123")
	s.Require().NoError(err)
	s.Equal(user.Id, logged.Id)

	_, err = s.auth.Login(s.ctx, "test@donorhub.com", "wrong")
	requireAppError(s.T(), err, http.StatusUnauthorized, apperror.CodeInvalidCredentials)

	_, err = s.auth.Login(s.ctx, "nobody@donorhub.com", "password123")
	requireAppError(s.T(), err, http.StatusUnauthorized, apperror.CodeInvalidCredentials)

	_, err = s.auth.Register(s.ctx, "", "password123", "No Email")
	requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)

	got, err := s.auth.GetUser(s.ctx, user.Id)
	s.Require().NoError(err)
	s.Equal("Test User", got.Name)
}
