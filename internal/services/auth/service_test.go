package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/akehlen/buzzquiz/internal/dependencies/mocks"
	"github.com/akehlen/buzzquiz/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestRegisterIssuesToken() {
	token, err := s.service.Register(s.ctx, "quinn", "hunter2")
	s.Require().NoError(err)
	s.NotEmpty(token.Value)
	s.Equal("quinn", token.Username)
	s.NotEmpty(token.UserID)
	s.Equal(s.clock.Now().Add(24*time.Hour), token.ExpiresAt)
}

func (s *ServiceSuite) TestRegisterDuplicateUsernameFails() {
	_, err := s.service.Register(s.ctx, "quinn", "hunter2")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "quinn", "other")
	s.Require().ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestRegisterDoesNotStorePlaintext() {
	_, err := s.service.Register(s.ctx, "quinn", "hunter2")
	s.Require().NoError(err)

	account, err := s.storage.GetAccountByUsername(s.ctx, "quinn")
	s.Require().NoError(err)
	s.NotEmpty(account.PasswordHash)
	s.NotEqual("hunter2", account.PasswordHash)
}

func (s *ServiceSuite) TestLoginSucceeds() {
	registered, err := s.service.Register(s.ctx, "quinn", "hunter2")
	s.Require().NoError(err)

	token, err := s.service.Login(s.ctx, "quinn", "hunter2")
	s.Require().NoError(err)
	s.Equal(registered.UserID, token.UserID)
	s.NotEqual(registered.Value, token.Value)
}

func (s *ServiceSuite) TestLoginWrongPasswordFails() {
	_, err := s.service.Register(s.ctx, "quinn", "hunter2")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "quinn", "wrong")
	s.Require().ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUserFails() {
	_, err := s.service.Login(s.ctx, "nobody", "hunter2")
	s.Require().ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestValidateToken() {
	token, err := s.service.Register(s.ctx, "quinn", "hunter2")
	s.Require().NoError(err)

	validated, err := s.service.Validate(token.Value)
	s.Require().NoError(err)
	s.Equal(token.UserID, validated.UserID)
}

func (s *ServiceSuite) TestValidateUnknownTokenFails() {
	_, err := s.service.Validate("tok_nope")
	s.Require().ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestValidateExpiredTokenFails() {
	token, err := s.service.Register(s.ctx, "quinn", "hunter2")
	s.Require().NoError(err)

	s.clock.Advance(24*time.Hour + time.Second)

	_, err = s.service.Validate(token.Value)
	s.Require().ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestInvalidateToken() {
	token, err := s.service.Register(s.ctx, "quinn", "hunter2")
	s.Require().NoError(err)

	s.service.Invalidate(token.Value)

	_, err = s.service.Validate(token.Value)
	s.Require().ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestCleanExpiredTokens() {
	old, err := s.service.Register(s.ctx, "quinn", "hunter2")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)
	fresh, err := s.service.Login(s.ctx, "quinn", "hunter2")
	s.Require().NoError(err)

	s.service.CleanExpiredTokens()

	_, err = s.service.Validate(old.Value)
	s.Require().ErrorIs(err, ErrInvalidToken)
	_, err = s.service.Validate(fresh.Value)
	s.Require().NoError(err)
}
