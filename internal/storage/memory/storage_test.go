package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/akehlen/buzzquiz/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSessionRoundTrip() {
	session := &model.Session{
		ID:       "session-1",
		JoinCode: "ABCDE",
		Status:   model.SessionStatusWaiting,
		Players: []model.Player{
			{ID: "host-1", Name: "Alice", IsHost: true},
		},
	}

	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Len(retrieved.Players, 1)

	byCode, err := s.storage.GetSessionByJoinCode(s.ctx, "ABCDE")
	s.Require().NoError(err)
	s.Equal(session.ID, byCode.ID)

	_, err = s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionSnapshotIsolation() {
	session := &model.Session{
		ID:      "session-1",
		Players: []model.Player{{ID: "player-1", Score: 0}},
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	// Mutating a loaded copy must not touch the stored record until an
	// explicit save
	loaded, err := s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	loaded.Players[0].Score = 500

	fresh, err := s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(0, fresh.Players[0].Score)

	s.Require().NoError(s.storage.SaveSession(s.ctx, loaded))
	fresh, err = s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(500, fresh.Players[0].Score)
}

func (s *StorageSuite) TestDeleteSessionRemovesJoinCode() {
	session := &model.Session{ID: "session-1", JoinCode: "ABCDE"}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "session-1"))

	exists, err := s.storage.JoinCodeExists(s.ctx, "ABCDE")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestGameStateRoundTrip() {
	gs := &model.GameState{
		SessionID:      "session-1",
		QuestionStatus: model.QuestionStatusIdle,
		ActiveBoard:    model.BoardOne,
	}
	s.Require().NoError(s.storage.SaveGameState(s.ctx, gs))

	retrieved, err := s.storage.GetGameState(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(model.QuestionStatusIdle, retrieved.QuestionStatus)

	s.Require().NoError(s.storage.DeleteGameState(s.ctx, "session-1"))
	_, err = s.storage.GetGameState(s.ctx, "session-1")
	s.ErrorIs(err, model.ErrGameStateNotFound)
}

func (s *StorageSuite) TestQuizContent() {
	s.Require().NoError(s.storage.SaveQuiz(s.ctx, &model.Quiz{ID: "quiz-1", Name: "Trivia"}))
	s.Require().NoError(s.storage.SaveCategory(s.ctx, &model.Category{
		ID: "cat-1", QuizID: "quiz-1", Name: "History", Board: model.BoardOne,
	}))
	s.Require().NoError(s.storage.SaveQuestion(s.ctx, &model.Question{
		ID: "q-1", CategoryID: "cat-1", Points: 100,
	}))

	quizzes, err := s.storage.ListQuizzes(s.ctx)
	s.Require().NoError(err)
	s.Len(quizzes, 1)

	categories, err := s.storage.GetCategoriesForQuiz(s.ctx, "quiz-1")
	s.Require().NoError(err)
	s.Len(categories, 1)

	questions, err := s.storage.GetQuestionsForQuiz(s.ctx, "quiz-1")
	s.Require().NoError(err)
	s.Len(questions, 1)
}

func (s *StorageSuite) TestSaveCategoryUpsert() {
	s.Require().NoError(s.storage.SaveCategory(s.ctx, &model.Category{
		ID: "cat-1", QuizID: "quiz-1", Name: "History",
	}))
	s.Require().NoError(s.storage.SaveCategory(s.ctx, &model.Category{
		ID: "cat-1", QuizID: "quiz-1", Name: "World History",
	}))

	categories, err := s.storage.GetCategoriesForQuiz(s.ctx, "quiz-1")
	s.Require().NoError(err)
	s.Require().Len(categories, 1)
	s.Equal("World History", categories[0].Name)
}

func (s *StorageSuite) TestUsedQuestions() {
	s.Require().NoError(s.storage.MarkQuestionUsed(s.ctx, "session-1", "q-1"))
	s.Require().NoError(s.storage.MarkQuestionUsed(s.ctx, "session-1", "q-1"))

	used, err := s.storage.GetUsedQuestions(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Len(used, 1)
	s.True(used["q-1"])
}

func (s *StorageSuite) TestBuzzOrdering() {
	for _, id := range []model.PlayerID{"player-1", "player-2", "player-3"} {
		buzz := &model.BuzzEvent{SessionID: "session-1", QuestionID: "q-1", PlayerID: id}
		s.Require().NoError(s.storage.AppendBuzz(s.ctx, buzz))
	}

	buzzes, err := s.storage.GetBuzzes(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.Require().Len(buzzes, 3)
	s.Equal(1, buzzes[0].ArrivalOrder)
	s.Equal(3, buzzes[2].ArrivalOrder)
}

func (s *StorageSuite) TestBuzzDuplicateRejected() {
	buzz := &model.BuzzEvent{SessionID: "session-1", QuestionID: "q-1", PlayerID: "player-1"}
	s.Require().NoError(s.storage.AppendBuzz(s.ctx, buzz))

	dup := &model.BuzzEvent{SessionID: "session-1", QuestionID: "q-1", PlayerID: "player-1"}
	s.ErrorIs(s.storage.AppendBuzz(s.ctx, dup), model.ErrAlreadyBuzzed)
}

func (s *StorageSuite) TestRemoveAndClearBuzzes() {
	for _, id := range []model.PlayerID{"player-1", "player-2"} {
		buzz := &model.BuzzEvent{SessionID: "session-1", QuestionID: "q-1", PlayerID: id}
		s.Require().NoError(s.storage.AppendBuzz(s.ctx, buzz))
	}

	s.Require().NoError(s.storage.RemoveBuzz(s.ctx, "session-1", "q-1", "player-1"))
	buzzes, err := s.storage.GetBuzzes(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.Require().Len(buzzes, 1)
	s.Equal(model.PlayerID("player-2"), buzzes[0].PlayerID)

	s.Require().NoError(s.storage.ClearBuzzes(s.ctx, "session-1"))
	buzzes, err = s.storage.GetBuzzes(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.Empty(buzzes)
}

func (s *StorageSuite) TestResultsAndRecords() {
	results := []model.PlayerResult{{PlayerID: "player-1", FinalScore: 300, Rank: 1, IsWinner: true}}
	s.Require().NoError(s.storage.SaveResults(s.ctx, "session-1", results))

	retrieved, err := s.storage.GetResults(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Len(retrieved, 1)

	_, err = s.storage.GetResults(s.ctx, "session-2")
	s.ErrorIs(err, model.ErrResultsNotFound)

	s.Require().NoError(s.storage.AppendAnswerRecord(s.ctx, &model.AnswerRecord{
		SessionID: "session-1", PlayerID: "player-1", QuestionID: "q-1", Correct: true, PointsDelta: 100,
	}))
	records, err := s.storage.GetAnswerRecords(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *StorageSuite) TestAccountsAndStats() {
	account := &model.Account{UserID: "user-1", Username: "alice", PasswordHash: "hash"}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	byName, err := s.storage.GetAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), byName.UserID)

	_, err = s.storage.GetAccount(s.ctx, "user-2")
	s.ErrorIs(err, model.ErrAccountNotFound)

	_, err = s.storage.GetUserStats(s.ctx, "user-1")
	s.ErrorIs(err, model.ErrStatsNotFound)

	s.Require().NoError(s.storage.SaveUserStats(s.ctx, &model.UserStats{UserID: "user-1", GamesPlayed: 1}))
	stats, err := s.storage.GetUserStats(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(1, stats.GamesPlayed)
}
