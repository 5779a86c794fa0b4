package progression

import (
	"context"
	"log/slog"
	"sort"

	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/storage"
)

// PodiumSize is how many ranked players the end screen shows
const PodiumSize = 3

// Outcome is the result of an Advance check
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeBoardSwitched
	OutcomeGameOver
)

// Service decides board completion, board switching and game end
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new progression service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// boardQuestions returns the IDs of the quiz's questions on the board
func (s *Service) boardQuestions(ctx context.Context, quizID model.QuizID, board int) ([]model.QuestionID, error) {
	questions, err := s.storage.GetQuestionsForQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	var ids []model.QuestionID
	for _, q := range questions {
		if q.Board == board {
			ids = append(ids, q.ID)
		}
	}
	return ids, nil
}

// IsBoardComplete reports whether the board has at least one question and
// every question on it has been used
func (s *Service) IsBoardComplete(ctx context.Context, session *model.Session, board int) (bool, error) {
	ids, err := s.boardQuestions(ctx, session.QuizID, board)
	if err != nil {
		return false, err
	}
	if len(ids) == 0 {
		return false, nil
	}

	used, err := s.storage.GetUsedQuestions(ctx, session.ID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if !used[id] {
			return false, nil
		}
	}
	return true, nil
}

// Advance inspects the session after a question resolution and decides
// whether to switch boards or end the game. On a board switch the game
// state is mutated (active board and lingering question state cleared) and
// persisted; GameOver is only signalled, the caller finishes the game.
func (s *Service) Advance(ctx context.Context, session *model.Session, gs *model.GameState) (Outcome, error) {
	boardTwo, err := s.boardQuestions(ctx, session.QuizID, model.BoardTwo)
	if err != nil {
		return OutcomeNone, err
	}
	hasBoardTwo := len(boardTwo) > 0

	boardOneComplete, err := s.IsBoardComplete(ctx, session, model.BoardOne)
	if err != nil {
		return OutcomeNone, err
	}

	if boardOneComplete && hasBoardTwo && gs.ActiveBoard == model.BoardOne {
		gs.ActiveBoard = model.BoardTwo
		gs.ClearQuestion()
		if err := s.storage.SaveGameState(ctx, gs); err != nil {
			return OutcomeNone, err
		}
		s.logger.Info("board switched",
			slog.String("session_id", string(session.ID)),
			slog.Int("active_board", gs.ActiveBoard),
		)
		return OutcomeBoardSwitched, nil
	}

	if !hasBoardTwo && boardOneComplete {
		return OutcomeGameOver, nil
	}
	if hasBoardTwo {
		boardTwoComplete, err := s.IsBoardComplete(ctx, session, model.BoardTwo)
		if err != nil {
			return OutcomeNone, err
		}
		if boardTwoComplete {
			return OutcomeGameOver, nil
		}
	}

	return OutcomeNone, nil
}

// ComputeRanking ranks non-host players by score descending, stable on
// ties so tied players keep their turn order. Every player whose score
// equals the maximum is flagged as a winner.
func ComputeRanking(session *model.Session) []model.PlayerResult {
	contestants := session.Contestants()
	if len(contestants) == 0 {
		return nil
	}

	sort.SliceStable(contestants, func(i, j int) bool {
		return contestants[i].Score > contestants[j].Score
	})

	top := contestants[0].Score
	results := make([]model.PlayerResult, len(contestants))
	for i, p := range contestants {
		results[i] = model.PlayerResult{
			PlayerID:   p.ID,
			Name:       p.Name,
			UserID:     p.UserID,
			FinalScore: p.Score,
			IsWinner:   p.Score == top,
			Rank:       i + 1,
		}
	}
	return results
}

// Podium returns the leading PodiumSize entries of a ranking
func Podium(ranking []model.PlayerResult) []model.PlayerResult {
	if len(ranking) <= PodiumSize {
		return ranking
	}
	return ranking[:PodiumSize]
}
