package storage

import (
	"context"

	"github.com/akehlen/buzzquiz/internal/model"
)

// Storage defines the interface for the shared session record and its
// satellite data. Writes are narrow per-entity saves rather than whole
// aggregate replacement so host and contestant writers never clobber
// each other's fields.
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	GetSessionByJoinCode(ctx context.Context, code model.JoinCode) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	JoinCodeExists(ctx context.Context, code model.JoinCode) (bool, error)

	// Game state operations (one record per session)
	SaveGameState(ctx context.Context, gs *model.GameState) error
	GetGameState(ctx context.Context, sessionID model.SessionID) (*model.GameState, error)
	DeleteGameState(ctx context.Context, sessionID model.SessionID) error

	// Quiz content operations
	SaveQuiz(ctx context.Context, quiz *model.Quiz) error
	GetQuiz(ctx context.Context, id model.QuizID) (*model.Quiz, error)
	ListQuizzes(ctx context.Context) ([]*model.Quiz, error)
	SaveCategory(ctx context.Context, category *model.Category) error
	GetCategoriesForQuiz(ctx context.Context, quizID model.QuizID) ([]*model.Category, error)
	SaveQuestion(ctx context.Context, question *model.Question) error
	GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error)
	GetQuestionsForQuiz(ctx context.Context, quizID model.QuizID) ([]*model.Question, error)

	// Question usage operations; absence means unused
	MarkQuestionUsed(ctx context.Context, sessionID model.SessionID, questionID model.QuestionID) error
	GetUsedQuestions(ctx context.Context, sessionID model.SessionID) (map[model.QuestionID]bool, error)

	// Buzz operations. AppendBuzz assigns ArrivalOrder monotonically per
	// question and returns ErrAlreadyBuzzed on a duplicate (session,
	// question, player) tuple.
	AppendBuzz(ctx context.Context, buzz *model.BuzzEvent) error
	GetBuzzes(ctx context.Context, sessionID model.SessionID, questionID model.QuestionID) ([]model.BuzzEvent, error)
	RemoveBuzz(ctx context.Context, sessionID model.SessionID, questionID model.QuestionID, playerID model.PlayerID) error
	ClearBuzzes(ctx context.Context, sessionID model.SessionID) error

	// Results and audit operations
	SaveResults(ctx context.Context, sessionID model.SessionID, results []model.PlayerResult) error
	GetResults(ctx context.Context, sessionID model.SessionID) ([]model.PlayerResult, error)
	AppendAnswerRecord(ctx context.Context, record *model.AnswerRecord) error
	GetAnswerRecords(ctx context.Context, sessionID model.SessionID) ([]model.AnswerRecord, error)

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.UserID) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)

	// User stats operations
	SaveUserStats(ctx context.Context, stats *model.UserStats) error
	GetUserStats(ctx context.Context, id model.UserID) (*model.UserStats, error)
}
