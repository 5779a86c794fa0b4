package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/akehlen/buzzquiz/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app       *TestApp
	ctx       context.Context
	quiz      *model.Quiz
	questions map[string]*model.Question
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()

	quiz, questions, err := s.app.LoadTestQuiz(s.ctx)
	s.Require().NoError(err)
	s.quiz = quiz
	s.questions = questions
}

// Test: Complete game flow from session creation to final results
func (s *IntegrationSuite) TestCompleteGameFlow() {
	// Step 1: Host creates the session
	session, host, err := s.app.LobbyController.CreateSession(s.ctx,
		"Friday Trivia", "Quinn", s.quiz.ID, 3, "")
	s.Require().NoError(err)
	s.Equal(model.SessionStatusWaiting, session.Status)

	// Step 2: Three contestants join; the last join fills the session and
	// the game auto-starts
	_, alice, err := s.app.LobbyController.JoinSession(s.ctx, session.JoinCode, "Alice", "")
	s.Require().NoError(err)
	_, bob, err := s.app.LobbyController.JoinSession(s.ctx, session.JoinCode, "Bob", "")
	s.Require().NoError(err)
	running, carol, err := s.app.LobbyController.JoinSession(s.ctx, session.JoinCode, "Carol", "")
	s.Require().NoError(err)
	s.Equal(model.SessionStatusRunning, running.Status)

	gs, err := s.app.GameController.GetState(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(alice.ID, gs.CurrentPlayerID)
	s.Equal(model.BoardOne, gs.ActiveBoard)

	// Step 3: Alice takes the History 100 and gets it right
	q := s.questions["History-100"]
	s.Require().NoError(s.app.GameController.SelectQuestion(s.ctx, session.ID, host.ID, q.ID))
	s.Require().NoError(s.app.GameController.MarkCorrect(s.ctx, session.ID, host.ID))
	s.Equal(100, s.score(session.ID, alice.ID))

	// Step 4: Bob misses the Science 500; carol wins the buzz race and
	// takes the rebound
	q = s.questions["Science-500"]
	s.Require().NoError(s.app.GameController.SelectQuestion(s.ctx, session.ID, host.ID, q.ID))
	s.Require().NoError(s.app.GameController.MarkWrong(s.ctx, session.ID, host.ID))
	s.Equal(-250, s.score(session.ID, bob.ID))

	s.app.MockClock.Advance(2 * time.Second)
	s.Require().NoError(s.app.GameController.SubmitBuzz(s.ctx, session.ID, carol.ID, q.ID))
	s.Require().NoError(s.app.GameController.MarkCorrect(s.ctx, session.ID, host.ID))
	s.Equal(500, s.score(session.ID, carol.ID))

	// Step 5: Nobody wants the rest of board 1; the host skips through
	for _, key := range []string{"History-200", "History-300", "History-500",
		"Science-100", "Science-200", "Science-300"} {
		s.Require().NoError(s.app.GameController.SelectQuestion(s.ctx, session.ID, host.ID, s.questions[key].ID))
		s.Require().NoError(s.app.GameController.SkipQuestion(s.ctx, session.ID, host.ID))
	}

	// Board 1 is exhausted; play moved to board 2
	gs, err = s.app.GameController.GetState(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.BoardTwo, gs.ActiveBoard)
	s.Len(s.app.MockPublisher.EventsOfType(model.EventBoardAdvanced), 1)

	// Step 6: Board 2 doubles values; the turn holder takes Movies 500
	// for 1000 points
	turnHolder := gs.CurrentPlayerID
	before := s.score(session.ID, turnHolder)
	q = s.questions["Movies-500"]
	s.Require().NoError(s.app.GameController.SelectQuestion(s.ctx, session.ID, host.ID, q.ID))
	s.Require().NoError(s.app.GameController.MarkCorrect(s.ctx, session.ID, host.ID))
	s.Equal(before+1000, s.score(session.ID, turnHolder))

	// Step 7: Skip out the rest of board 2 to end the game
	for _, key := range []string{"Movies-100", "Movies-200", "Movies-300"} {
		s.Require().NoError(s.app.GameController.SelectQuestion(s.ctx, session.ID, host.ID, s.questions[key].ID))
		s.Require().NoError(s.app.GameController.SkipQuestion(s.ctx, session.ID, host.ID))
	}

	// Game over: session finished, results emitted exactly once
	finished, err := s.app.LobbyController.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.SessionStatusFinished, finished.Status)

	events := s.app.MockPublisher.EventsOfType(model.EventGameOver)
	s.Require().Len(events, 1)

	results, err := s.app.GameController.GetResults(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal(1, results[0].Rank)
	s.True(results[0].IsWinner)
	s.GreaterOrEqual(results[0].FinalScore, results[1].FinalScore)
	s.GreaterOrEqual(results[1].FinalScore, results[2].FinalScore)
}

// Test: registered players accumulate lifetime stats across a game
func (s *IntegrationSuite) TestStatsRecordedForRegisteredPlayers() {
	token, err := s.app.AuthService.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	session, host, err := s.app.LobbyController.CreateSession(s.ctx,
		"", "Quinn", s.quiz.ID, 1, "")
	s.Require().NoError(err)

	// Single slot: joining auto-starts the game
	_, _, err = s.app.LobbyController.JoinSession(s.ctx, session.JoinCode, "Alice", token.UserID)
	s.Require().NoError(err)

	// Alice wins every board 1 question and the host skips board 2
	for _, key := range []string{"History-100", "History-200", "History-300", "History-500",
		"Science-100", "Science-200", "Science-300", "Science-500"} {
		s.Require().NoError(s.app.GameController.SelectQuestion(s.ctx, session.ID, host.ID, s.questions[key].ID))
		s.Require().NoError(s.app.GameController.MarkCorrect(s.ctx, session.ID, host.ID))
	}
	for _, key := range []string{"Movies-100", "Movies-200", "Movies-300", "Movies-500"} {
		s.Require().NoError(s.app.GameController.SelectQuestion(s.ctx, session.ID, host.ID, s.questions[key].ID))
		s.Require().NoError(s.app.GameController.SkipQuestion(s.ctx, session.ID, host.ID))
	}

	stats, err := s.app.StatsService.GetStats(s.ctx, token.UserID)
	s.Require().NoError(err)
	s.Equal(8, stats.QuestionsCorrect)
	s.Equal(0, stats.QuestionsWrong)
	s.Equal(1, stats.GamesPlayed)
	s.Equal(1, stats.GamesWon)
	s.Equal(2200, stats.TotalPoints)
}

// Test: host teardown removes the whole session aggregate
func (s *IntegrationSuite) TestEndSessionCleansUp() {
	session, host, err := s.app.LobbyController.CreateSession(s.ctx,
		"", "Quinn", s.quiz.ID, 2, "")
	s.Require().NoError(err)
	_, _, err = s.app.LobbyController.JoinSession(s.ctx, session.JoinCode, "Alice", "")
	s.Require().NoError(err)

	s.Require().NoError(s.app.LobbyController.EndSession(s.ctx, session.ID, host.ID))

	_, err = s.app.LobbyController.GetSession(s.ctx, session.ID)
	s.Require().ErrorIs(err, model.ErrSessionNotFound)
	s.Len(s.app.MockPublisher.EventsOfType(model.EventSessionEnded), 1)
}

func (s *IntegrationSuite) score(sessionID model.SessionID, playerID model.PlayerID) int {
	session, err := s.app.LobbyController.GetSession(s.ctx, sessionID)
	s.Require().NoError(err)
	p := session.GetPlayer(playerID)
	s.Require().NotNil(p)
	return p.Score
}
