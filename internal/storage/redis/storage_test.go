package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/akehlen/buzzquiz/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour
	cfg.ResultsTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.Session{
		ID:         "session-1",
		Name:       "Friday Night Trivia",
		JoinCode:   "ABCDE",
		QuizID:     "quiz-1",
		MaxPlayers: 4,
		Status:     model.SessionStatusWaiting,
		Players: []model.Player{
			{ID: "host-1", Name: "Alice", IsHost: true},
		},
		CreatedAt: time.Now(),
	}

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Equal(session.JoinCode, retrieved.JoinCode)
	s.Len(retrieved.Players, 1)
	s.True(retrieved.Players[0].IsHost)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestGetSessionByJoinCode() {
	session := &model.Session{
		ID:       "session-1",
		JoinCode: "QWXYZ",
		Status:   model.SessionStatusWaiting,
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSessionByJoinCode(s.ctx, "QWXYZ")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)

	_, err = s.storage.GetSessionByJoinCode(s.ctx, "NOPE1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestJoinCodeExists() {
	session := &model.Session{ID: "session-1", JoinCode: "ABCDE"}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	exists, err := s.storage.JoinCodeExists(s.ctx, "ABCDE")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.JoinCodeExists(s.ctx, "ZZZZZ")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestDeleteSessionRemovesIndexes() {
	session := &model.Session{ID: "session-1", JoinCode: "ABCDE"}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
	s.Require().NoError(s.storage.MarkQuestionUsed(s.ctx, "session-1", "q-1"))

	err := s.storage.DeleteSession(s.ctx, "session-1")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "session-1")
	s.ErrorIs(err, model.ErrSessionNotFound)

	exists, err := s.storage.JoinCodeExists(s.ctx, "ABCDE")
	s.Require().NoError(err)
	s.False(exists)

	used, err := s.storage.GetUsedQuestions(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Empty(used)
}

func (s *StorageSuite) TestSessionTTL() {
	session := &model.Session{ID: "session-1", JoinCode: "ABCDE"}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	ttl := s.mini.TTL(sessionKey("session-1"))
	s.True(ttl > 0, "session should expire")
}

// Game state tests

func (s *StorageSuite) TestSaveAndGetGameState() {
	gs := &model.GameState{
		SessionID:       "session-1",
		CurrentPlayerID: "player-1",
		QuestionStatus:  model.QuestionStatusIdle,
		ActiveBoard:     model.BoardOne,
	}

	err := s.storage.SaveGameState(s.ctx, gs)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGameState(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(gs.CurrentPlayerID, retrieved.CurrentPlayerID)
	s.Equal(model.QuestionStatusIdle, retrieved.QuestionStatus)
}

func (s *StorageSuite) TestGetGameStateNotFound() {
	_, err := s.storage.GetGameState(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameStateNotFound)
}

func (s *StorageSuite) TestDeleteGameState() {
	gs := &model.GameState{SessionID: "session-1"}
	s.Require().NoError(s.storage.SaveGameState(s.ctx, gs))

	s.Require().NoError(s.storage.DeleteGameState(s.ctx, "session-1"))

	_, err := s.storage.GetGameState(s.ctx, "session-1")
	s.ErrorIs(err, model.ErrGameStateNotFound)
}

// Quiz content tests

func (s *StorageSuite) TestQuizRoundTrip() {
	quiz := &model.Quiz{ID: "quiz-1", Name: "General Knowledge"}
	s.Require().NoError(s.storage.SaveQuiz(s.ctx, quiz))

	retrieved, err := s.storage.GetQuiz(s.ctx, "quiz-1")
	s.Require().NoError(err)
	s.Equal("General Knowledge", retrieved.Name)

	quizzes, err := s.storage.ListQuizzes(s.ctx)
	s.Require().NoError(err)
	s.Len(quizzes, 1)

	_, err = s.storage.GetQuiz(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrQuizNotFound)
}

func (s *StorageSuite) TestCategoriesForQuiz() {
	s.Require().NoError(s.storage.SaveCategory(s.ctx, &model.Category{
		ID: "cat-1", QuizID: "quiz-1", Name: "History", Position: 0, Board: model.BoardOne,
	}))
	s.Require().NoError(s.storage.SaveCategory(s.ctx, &model.Category{
		ID: "cat-2", QuizID: "quiz-1", Name: "Science", Position: 1, Board: model.BoardOne,
	}))

	categories, err := s.storage.GetCategoriesForQuiz(s.ctx, "quiz-1")
	s.Require().NoError(err)
	s.Len(categories, 2)

	categories, err = s.storage.GetCategoriesForQuiz(s.ctx, "other-quiz")
	s.Require().NoError(err)
	s.Empty(categories)
}

func (s *StorageSuite) TestQuestionsForQuiz() {
	s.Require().NoError(s.storage.SaveCategory(s.ctx, &model.Category{
		ID: "cat-1", QuizID: "quiz-1", Board: model.BoardOne,
	}))
	s.Require().NoError(s.storage.SaveQuestion(s.ctx, &model.Question{
		ID: "q-1", CategoryID: "cat-1", Points: 100, Text: "Q?", Answer: "A", Type: model.QuestionTypeText,
	}))
	s.Require().NoError(s.storage.SaveQuestion(s.ctx, &model.Question{
		ID: "q-2", CategoryID: "cat-1", Points: 200, Text: "Q2?", Answer: "A2", Type: model.QuestionTypeText,
	}))

	retrieved, err := s.storage.GetQuestion(s.ctx, "q-1")
	s.Require().NoError(err)
	s.Equal(100, retrieved.Points)

	questions, err := s.storage.GetQuestionsForQuiz(s.ctx, "quiz-1")
	s.Require().NoError(err)
	s.Len(questions, 2)

	_, err = s.storage.GetQuestion(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrQuestionNotFound)
}

// Question usage tests

func (s *StorageSuite) TestMarkAndGetUsedQuestions() {
	s.Require().NoError(s.storage.MarkQuestionUsed(s.ctx, "session-1", "q-1"))
	s.Require().NoError(s.storage.MarkQuestionUsed(s.ctx, "session-1", "q-2"))
	// Marking twice is a no-op
	s.Require().NoError(s.storage.MarkQuestionUsed(s.ctx, "session-1", "q-1"))

	used, err := s.storage.GetUsedQuestions(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Len(used, 2)
	s.True(used["q-1"])
	s.True(used["q-2"])
}

// Buzz tests

func (s *StorageSuite) TestAppendBuzzAssignsArrivalOrder() {
	first := &model.BuzzEvent{SessionID: "session-1", QuestionID: "q-1", PlayerID: "player-1"}
	second := &model.BuzzEvent{SessionID: "session-1", QuestionID: "q-1", PlayerID: "player-2"}

	s.Require().NoError(s.storage.AppendBuzz(s.ctx, first))
	s.Require().NoError(s.storage.AppendBuzz(s.ctx, second))

	s.Equal(1, first.ArrivalOrder)
	s.Equal(2, second.ArrivalOrder)

	buzzes, err := s.storage.GetBuzzes(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.Require().Len(buzzes, 2)
	s.Equal(model.PlayerID("player-1"), buzzes[0].PlayerID)
	s.Equal(model.PlayerID("player-2"), buzzes[1].PlayerID)
}

func (s *StorageSuite) TestAppendBuzzDuplicateRejected() {
	buzz := &model.BuzzEvent{SessionID: "session-1", QuestionID: "q-1", PlayerID: "player-1"}
	s.Require().NoError(s.storage.AppendBuzz(s.ctx, buzz))

	dup := &model.BuzzEvent{SessionID: "session-1", QuestionID: "q-1", PlayerID: "player-1"}
	err := s.storage.AppendBuzz(s.ctx, dup)
	s.ErrorIs(err, model.ErrAlreadyBuzzed)

	buzzes, err := s.storage.GetBuzzes(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.Len(buzzes, 1)
}

func (s *StorageSuite) TestRemoveBuzzPreservesOrder() {
	for _, id := range []model.PlayerID{"player-1", "player-2", "player-3"} {
		buzz := &model.BuzzEvent{SessionID: "session-1", QuestionID: "q-1", PlayerID: id}
		s.Require().NoError(s.storage.AppendBuzz(s.ctx, buzz))
	}

	s.Require().NoError(s.storage.RemoveBuzz(s.ctx, "session-1", "q-1", "player-2"))

	buzzes, err := s.storage.GetBuzzes(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.Require().Len(buzzes, 2)
	s.Equal(model.PlayerID("player-1"), buzzes[0].PlayerID)
	s.Equal(model.PlayerID("player-3"), buzzes[1].PlayerID)
	s.True(buzzes[0].ArrivalOrder < buzzes[1].ArrivalOrder)
}

func (s *StorageSuite) TestRemoveBuzzAllowsRebuzz() {
	buzz := &model.BuzzEvent{SessionID: "session-1", QuestionID: "q-1", PlayerID: "player-1"}
	s.Require().NoError(s.storage.AppendBuzz(s.ctx, buzz))
	s.Require().NoError(s.storage.RemoveBuzz(s.ctx, "session-1", "q-1", "player-1"))

	again := &model.BuzzEvent{SessionID: "session-1", QuestionID: "q-1", PlayerID: "player-1"}
	s.Require().NoError(s.storage.AppendBuzz(s.ctx, again))
	s.True(again.ArrivalOrder > buzz.ArrivalOrder, "counter never resets within a question")
}

func (s *StorageSuite) TestClearBuzzes() {
	for _, q := range []model.QuestionID{"q-1", "q-2"} {
		buzz := &model.BuzzEvent{SessionID: "session-1", QuestionID: q, PlayerID: "player-1"}
		s.Require().NoError(s.storage.AppendBuzz(s.ctx, buzz))
	}
	other := &model.BuzzEvent{SessionID: "session-2", QuestionID: "q-1", PlayerID: "player-9"}
	s.Require().NoError(s.storage.AppendBuzz(s.ctx, other))

	s.Require().NoError(s.storage.ClearBuzzes(s.ctx, "session-1"))

	buzzes, err := s.storage.GetBuzzes(s.ctx, "session-1", "q-1")
	s.Require().NoError(err)
	s.Empty(buzzes)

	buzzes, err = s.storage.GetBuzzes(s.ctx, "session-2", "q-1")
	s.Require().NoError(err)
	s.Len(buzzes, 1)
}

// Results and audit tests

func (s *StorageSuite) TestSaveAndGetResults() {
	results := []model.PlayerResult{
		{PlayerID: "player-1", Name: "Alice", FinalScore: 500, IsWinner: true, Rank: 1},
		{PlayerID: "player-2", Name: "Bob", FinalScore: 200, Rank: 2},
	}

	s.Require().NoError(s.storage.SaveResults(s.ctx, "session-1", results))

	retrieved, err := s.storage.GetResults(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Require().Len(retrieved, 2)
	s.True(retrieved[0].IsWinner)
	s.Equal(2, retrieved[1].Rank)

	_, err = s.storage.GetResults(s.ctx, "session-2")
	s.ErrorIs(err, model.ErrResultsNotFound)
}

func (s *StorageSuite) TestAnswerRecords() {
	record := &model.AnswerRecord{
		SessionID:   "session-1",
		PlayerID:    "player-1",
		QuestionID:  "q-1",
		Correct:     true,
		PointsDelta: 200,
		JudgedAt:    time.Now(),
	}
	s.Require().NoError(s.storage.AppendAnswerRecord(s.ctx, record))

	records, err := s.storage.GetAnswerRecords(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(200, records[0].PointsDelta)
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{
		UserID:       "user-1",
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Now(),
	}

	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	retrieved, err := s.storage.GetAccount(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)

	byName, err := s.storage.GetAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), byName.UserID)

	_, err = s.storage.GetAccountByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

// User stats tests

func (s *StorageSuite) TestUserStatsRoundTrip() {
	stats := &model.UserStats{
		UserID:           "user-1",
		TotalPoints:      700,
		QuestionsCorrect: 4,
		QuestionsWrong:   1,
		GamesPlayed:      2,
		GamesWon:         1,
	}

	s.Require().NoError(s.storage.SaveUserStats(s.ctx, stats))

	retrieved, err := s.storage.GetUserStats(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(700, retrieved.TotalPoints)

	_, err = s.storage.GetUserStats(s.ctx, "user-2")
	s.ErrorIs(err, model.ErrStatsNotFound)
}
