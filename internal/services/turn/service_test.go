package turn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/storage/memory"
	"github.com/akehlen/buzzquiz/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) session(contestants ...string) *model.Session {
	players := []model.Player{
		{ID: "host", Name: "Host", IsHost: true},
	}
	for i, name := range contestants {
		players = append(players, model.Player{
			ID:        model.PlayerID(name),
			Name:      name,
			TurnOrder: i,
		})
	}
	return &model.Session{
		ID:      "session-1",
		Status:  model.SessionStatusRunning,
		Players: players,
	}
}

// NextAfter tests

func (s *ServiceSuite) TestNextAfterRotatesCyclically() {
	session := s.session("alice", "bob", "carol")

	s.Equal(model.PlayerID("bob"), s.service.NextAfter(session, "alice"))
	s.Equal(model.PlayerID("carol"), s.service.NextAfter(session, "bob"))
	s.Equal(model.PlayerID("alice"), s.service.NextAfter(session, "carol"))
}

func (s *ServiceSuite) TestNextAfterSkipsHost() {
	session := s.session("alice", "bob")

	next := s.service.NextAfter(session, "bob")
	s.Equal(model.PlayerID("alice"), next)
	s.NotEqual(model.PlayerID("host"), next)
}

func (s *ServiceSuite) TestNextAfterEmptyCurrentReturnsFirst() {
	session := s.session("alice", "bob")
	s.Equal(model.PlayerID("alice"), s.service.NextAfter(session, ""))
}

func (s *ServiceSuite) TestNextAfterDepartedCurrentReturnsFirst() {
	session := s.session("alice", "bob")
	s.Equal(model.PlayerID("alice"), s.service.NextAfter(session, "ghost"))
}

func (s *ServiceSuite) TestNextAfterNoContestants() {
	session := s.session()
	s.Equal(model.PlayerID(""), s.service.NextAfter(session, "alice"))
}

func (s *ServiceSuite) TestNextAfterSingleContestantWrapsToSelf() {
	session := s.session("alice")
	s.Equal(model.PlayerID("alice"), s.service.NextAfter(session, "alice"))
}

// Rebalance tests

func (s *ServiceSuite) TestRebalanceCompactsTurnOrder() {
	session := s.session("alice", "bob", "carol")

	s.service.Rebalance(session, "bob")

	contestants := session.Contestants()
	s.Require().Len(contestants, 2)
	s.Equal(model.PlayerID("alice"), contestants[0].ID)
	s.Equal(0, contestants[0].TurnOrder)
	s.Equal(model.PlayerID("carol"), contestants[1].ID)
	s.Equal(1, contestants[1].TurnOrder)
}

func (s *ServiceSuite) TestRebalanceKeepsHost() {
	session := s.session("alice")

	s.service.Rebalance(session, "alice")

	s.Require().Len(session.Players, 1)
	s.True(session.Players[0].IsHost)
}

func (s *ServiceSuite) TestRebalanceUnknownPlayerIsNoop() {
	session := s.session("alice", "bob")

	s.service.Rebalance(session, "ghost")

	s.Len(session.Contestants(), 2)
}

// EnsureCurrentPlayer tests

func (s *ServiceSuite) TestEnsureCurrentPlayerBootstrapsFirst() {
	session := s.session("alice", "bob")
	gs := &model.GameState{SessionID: session.ID, QuestionStatus: model.QuestionStatusIdle, ActiveBoard: model.BoardOne}
	s.Require().NoError(s.storage.SaveGameState(s.ctx, gs))

	err := s.service.EnsureCurrentPlayer(s.ctx, session, gs)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), gs.CurrentPlayerID)

	stored, err := s.storage.GetGameState(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), stored.CurrentPlayerID)
}

func (s *ServiceSuite) TestEnsureCurrentPlayerKeepsExisting() {
	session := s.session("alice", "bob")
	gs := &model.GameState{SessionID: session.ID, CurrentPlayerID: "bob"}

	err := s.service.EnsureCurrentPlayer(s.ctx, session, gs)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("bob"), gs.CurrentPlayerID)
}

func (s *ServiceSuite) TestEnsureCurrentPlayerRebootstrapsAfterHolderLeft() {
	session := s.session("alice", "bob")
	gs := &model.GameState{SessionID: session.ID, CurrentPlayerID: "ghost"}
	s.Require().NoError(s.storage.SaveGameState(s.ctx, gs))

	err := s.service.EnsureCurrentPlayer(s.ctx, session, gs)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), gs.CurrentPlayerID)
}

func (s *ServiceSuite) TestEnsureCurrentPlayerNoContestantsDefers() {
	session := s.session()
	gs := &model.GameState{SessionID: session.ID}

	err := s.service.EnsureCurrentPlayer(s.ctx, session, gs)
	s.Require().NoError(err)
	s.Empty(gs.CurrentPlayerID)
}
