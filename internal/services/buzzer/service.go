package buzzer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/akehlen/buzzquiz/internal/dependencies/clock"
	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/storage"
)

// Window is the fixed race window opened when a question enters the
// buzzing phase. Once it elapses no further buzzes are accepted, but
// candidates already queued remain valid.
const Window = 10 * time.Second

// Service arbitrates buzz attempts during the buzzing phase: eligibility,
// arrival ordering and window expiry.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new buzz arbiter
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// SubmitBuzz records a contestant's buzz for the current question.
// Accepted iff the question is in the buzzing phase, the window has not
// expired, the question matches the open one, the player is an eligible
// contestant (not host, not the turn holder) and has not already buzzed.
// Ineligible buzzes return ErrBuzzRejected; they are an expected artifact
// of stale reads, never fatal.
func (s *Service) SubmitBuzz(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID, questionID model.QuestionID) error {
	gs, err := s.storage.GetGameState(ctx, sessionID)
	if err != nil {
		return err
	}

	if gs.QuestionStatus != model.QuestionStatusBuzzing ||
		gs.CurrentQuestionID != questionID {
		return model.ErrBuzzRejected
	}
	if s.WindowExpired(gs) {
		return model.ErrBuzzRejected
	}
	if playerID == gs.CurrentPlayerID {
		return model.ErrBuzzRejected
	}

	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	player := session.GetPlayer(playerID)
	if player == nil || player.IsHost {
		return model.ErrBuzzRejected
	}

	buzz := &model.BuzzEvent{
		SessionID:  sessionID,
		QuestionID: questionID,
		PlayerID:   playerID,
		BuzzedAt:   s.clock.Now(),
	}
	if err := s.storage.AppendBuzz(ctx, buzz); err != nil {
		if errors.Is(err, model.ErrAlreadyBuzzed) {
			return model.ErrBuzzRejected
		}
		return err
	}

	s.logger.Info("buzz accepted",
		slog.String("session_id", string(sessionID)),
		slog.String("question_id", string(questionID)),
		slog.String("player_id", string(playerID)),
		slog.Int("arrival_order", buzz.ArrivalOrder),
	)
	return nil
}

// PeekNext returns the earliest not-yet-removed candidate for the
// question, or false if the queue is empty.
func (s *Service) PeekNext(ctx context.Context, sessionID model.SessionID, questionID model.QuestionID) (model.PlayerID, bool, error) {
	buzzes, err := s.storage.GetBuzzes(ctx, sessionID, questionID)
	if err != nil {
		return "", false, err
	}
	if len(buzzes) == 0 {
		return "", false, nil
	}
	return buzzes[0].PlayerID, true, nil
}

// Remove drops a candidate from future consideration for the question,
// used after they answered wrong or left the session.
func (s *Service) Remove(ctx context.Context, sessionID model.SessionID, questionID model.QuestionID, playerID model.PlayerID) error {
	return s.storage.RemoveBuzz(ctx, sessionID, questionID, playerID)
}

// Clear wipes all buzz state for the session, on question resolution
func (s *Service) Clear(ctx context.Context, sessionID model.SessionID) error {
	return s.storage.ClearBuzzes(ctx, sessionID)
}

// WindowExpired reports whether the race window opened for the current
// question has elapsed. False if no window has been opened.
func (s *Service) WindowExpired(gs *model.GameState) bool {
	if gs.BuzzWindowStartedAt.IsZero() {
		return false
	}
	return s.clock.Since(gs.BuzzWindowStartedAt) >= Window
}
