package scoring

import (
	"context"
	"log/slog"

	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/storage"
)

// Service computes point deltas and applies them to player scores.
// The delta functions are pure; ApplyDelta performs the read-modify-write
// against the session record.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new scoring service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Multiplier returns the point multiplier for a board
func Multiplier(board int) int {
	if board == model.BoardTwo {
		return 2
	}
	return 1
}

// CorrectDelta returns the points awarded for a correct answer
func CorrectDelta(basePoints, board int) int {
	return basePoints * Multiplier(board)
}

// WrongDelta returns the (negative) points for a wrong answer:
// minus half the multiplied value, rounded down.
func WrongDelta(basePoints, board int) int {
	return -(basePoints * Multiplier(board) / 2)
}

// ApplyDelta adds delta to the player's score. The session is reloaded
// immediately before the write so a stale cached snapshot in the caller
// cannot cause a lost update.
func (s *Service) ApplyDelta(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID, delta int) (int, error) {
	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	player := session.GetPlayer(playerID)
	if player == nil {
		return 0, model.ErrPlayerNotFound
	}

	player.Score += delta
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return 0, err
	}

	s.logger.Debug("score applied",
		slog.String("session_id", string(sessionID)),
		slog.String("player_id", string(playerID)),
		slog.Int("delta", delta),
		slog.Int("score", player.Score),
	)
	return player.Score, nil
}
