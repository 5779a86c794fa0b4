package buzzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/akehlen/buzzquiz/internal/dependencies/mocks"
	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/storage/memory"
	"github.com/akehlen/buzzquiz/internal/testutil"
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
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	session := &model.Session{
		ID:     "session-1",
		Status: model.SessionStatusRunning,
		Players: []model.Player{
			{ID: "host", IsHost: true},
			{ID: "alice", TurnOrder: 0},
			{ID: "bob", TurnOrder: 1},
			{ID: "carol", TurnOrder: 2},
		},
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
}

// saveState stores a game state in the buzzing phase with the window
// opened at the current mock time
func (s *ServiceSuite) saveBuzzingState() {
	gs := &model.GameState{
		SessionID:           "session-1",
		CurrentPlayerID:     "alice",
		CurrentQuestionID:   "q-1",
		QuestionStatus:      model.QuestionStatusBuzzing,
		ActiveBoard:         model.BoardOne,
		BuzzWindowStartedAt: s.clock.Now(),
	}
	s.Require().NoError(s.storage.SaveGameState(s.ctx, gs))
}

func (s *ServiceSuite) TestSubmitBuzzAccepted() {
	s.saveBuzzingState()

	err := s.service.SubmitBuzz(s.ctx, "session-1", "bob", "q-1")
	s.Require().NoError(err)

	buzzes, err := s.storage.GetBuzzes(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.Require().Len(buzzes, 1)
	s.Equal(model.PlayerID("bob"), buzzes[0].PlayerID)
	s.Equal(1, buzzes[0].ArrivalOrder)
}

func (s *ServiceSuite) TestSubmitBuzzOrdersByArrival() {
	s.saveBuzzingState()

	s.Require().NoError(s.service.SubmitBuzz(s.ctx, "session-1", "carol", "q-1"))
	s.clock.Advance(time.Second)
	s.Require().NoError(s.service.SubmitBuzz(s.ctx, "session-1", "bob", "q-1"))

	buzzes, err := s.storage.GetBuzzes(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.Require().Len(buzzes, 2)
	s.Equal(model.PlayerID("carol"), buzzes[0].PlayerID)
	s.Equal(model.PlayerID("bob"), buzzes[1].PlayerID)
}

func (s *ServiceSuite) TestSubmitBuzzOutsideBuzzingPhaseRejected() {
	gs := &model.GameState{
		SessionID:         "session-1",
		CurrentPlayerID:   "alice",
		CurrentQuestionID: "q-1",
		QuestionStatus:    model.QuestionStatusAnswering,
		ActiveBoard:       model.BoardOne,
	}
	s.Require().NoError(s.storage.SaveGameState(s.ctx, gs))

	err := s.service.SubmitBuzz(s.ctx, "session-1", "bob", "q-1")
	s.Require().ErrorIs(err, model.ErrBuzzRejected)
}

func (s *ServiceSuite) TestSubmitBuzzForStaleQuestionRejected() {
	s.saveBuzzingState()

	err := s.service.SubmitBuzz(s.ctx, "session-1", "bob", "q-old")
	s.Require().ErrorIs(err, model.ErrBuzzRejected)
}

func (s *ServiceSuite) TestSubmitBuzzByTurnHolderRejected() {
	s.saveBuzzingState()

	err := s.service.SubmitBuzz(s.ctx, "session-1", "alice", "q-1")
	s.Require().ErrorIs(err, model.ErrBuzzRejected)
}

func (s *ServiceSuite) TestSubmitBuzzByHostRejected() {
	s.saveBuzzingState()

	err := s.service.SubmitBuzz(s.ctx, "session-1", "host", "q-1")
	s.Require().ErrorIs(err, model.ErrBuzzRejected)
}

func (s *ServiceSuite) TestSubmitBuzzByStrangerRejected() {
	s.saveBuzzingState()

	err := s.service.SubmitBuzz(s.ctx, "session-1", "ghost", "q-1")
	s.Require().ErrorIs(err, model.ErrBuzzRejected)
}

func (s *ServiceSuite) TestSubmitBuzzDuplicateRejected() {
	s.saveBuzzingState()

	s.Require().NoError(s.service.SubmitBuzz(s.ctx, "session-1", "bob", "q-1"))
	err := s.service.SubmitBuzz(s.ctx, "session-1", "bob", "q-1")
	s.Require().ErrorIs(err, model.ErrBuzzRejected)

	buzzes, _ := s.storage.GetBuzzes(s.ctx, "session-1", "q-1")
	s.Len(buzzes, 1)
}

func (s *ServiceSuite) TestSubmitBuzzAfterWindowRejected() {
	s.saveBuzzingState()
	s.clock.Advance(Window)

	err := s.service.SubmitBuzz(s.ctx, "session-1", "bob", "q-1")
	s.Require().ErrorIs(err, model.ErrBuzzRejected)
}

func (s *ServiceSuite) TestSubmitBuzzJustInsideWindowAccepted() {
	s.saveBuzzingState()
	s.clock.Advance(Window - time.Millisecond)

	err := s.service.SubmitBuzz(s.ctx, "session-1", "bob", "q-1")
	s.Require().NoError(err)
}

// Queue tests

func (s *ServiceSuite) TestPeekNextEmptyQueue() {
	s.saveBuzzingState()

	_, ok, err := s.service.PeekNext(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ServiceSuite) TestPeekNextReturnsEarliest() {
	s.saveBuzzingState()
	s.Require().NoError(s.service.SubmitBuzz(s.ctx, "session-1", "bob", "q-1"))
	s.Require().NoError(s.service.SubmitBuzz(s.ctx, "session-1", "carol", "q-1"))

	next, ok, err := s.service.PeekNext(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(model.PlayerID("bob"), next)
}

func (s *ServiceSuite) TestRemoveAdvancesQueue() {
	s.saveBuzzingState()
	s.Require().NoError(s.service.SubmitBuzz(s.ctx, "session-1", "bob", "q-1"))
	s.Require().NoError(s.service.SubmitBuzz(s.ctx, "session-1", "carol", "q-1"))

	s.Require().NoError(s.service.Remove(s.ctx, "session-1", "q-1", "bob"))

	next, ok, err := s.service.PeekNext(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(model.PlayerID("carol"), next)
}

func (s *ServiceSuite) TestClearEmptiesQueue() {
	s.saveBuzzingState()
	s.Require().NoError(s.service.SubmitBuzz(s.ctx, "session-1", "bob", "q-1"))

	s.Require().NoError(s.service.Clear(s.ctx, "session-1"))

	_, ok, err := s.service.PeekNext(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.False(ok)
}

// Window tests

func (s *ServiceSuite) TestWindowExpired() {
	gs := &model.GameState{BuzzWindowStartedAt: s.clock.Now()}

	s.False(s.service.WindowExpired(gs))

	s.clock.Advance(Window - time.Millisecond)
	s.False(s.service.WindowExpired(gs))

	s.clock.Advance(time.Millisecond)
	s.True(s.service.WindowExpired(gs))
}

func (s *ServiceSuite) TestWindowNeverOpenedNotExpired() {
	gs := &model.GameState{}
	s.clock.Advance(time.Hour)
	s.False(s.service.WindowExpired(gs))
}
