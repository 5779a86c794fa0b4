package stats

import (
	"context"
	"errors"
	"log/slog"

	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/storage"
)

// Service accumulates lifetime statistics for registered users. All
// recording is best-effort: failures are logged, never propagated, so a
// stats outage can never stall a game.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new stats service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

func (s *Service) load(ctx context.Context, userID model.UserID) (*model.UserStats, error) {
	stats, err := s.storage.GetUserStats(ctx, userID)
	if errors.Is(err, model.ErrStatsNotFound) {
		return &model.UserStats{UserID: userID}, nil
	}
	return stats, err
}

// RecordAnswer updates a user's answer counters. A no-op for guests.
func (s *Service) RecordAnswer(ctx context.Context, userID model.UserID, correct bool) {
	if userID == "" {
		return
	}

	stats, err := s.load(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load user stats", slog.String("user_id", string(userID)), slog.String("error", err.Error()))
		return
	}

	if correct {
		stats.QuestionsCorrect++
	} else {
		stats.QuestionsWrong++
	}

	if err := s.storage.SaveUserStats(ctx, stats); err != nil {
		s.logger.Warn("failed to save user stats", slog.String("user_id", string(userID)), slog.String("error", err.Error()))
	}
}

// RecordGame folds a final ranking into the stats of every registered
// participant: games played, games won and total points.
func (s *Service) RecordGame(ctx context.Context, ranking []model.PlayerResult) {
	for _, r := range ranking {
		if r.UserID == "" {
			continue
		}

		stats, err := s.load(ctx, r.UserID)
		if err != nil {
			s.logger.Warn("failed to load user stats", slog.String("user_id", string(r.UserID)), slog.String("error", err.Error()))
			continue
		}

		stats.GamesPlayed++
		if r.IsWinner {
			stats.GamesWon++
		}
		stats.TotalPoints += r.FinalScore

		if err := s.storage.SaveUserStats(ctx, stats); err != nil {
			s.logger.Warn("failed to save user stats", slog.String("user_id", string(r.UserID)), slog.String("error", err.Error()))
		}
	}
}

// GetStats returns a user's lifetime stats, zero-valued if none recorded
func (s *Service) GetStats(ctx context.Context, userID model.UserID) (*model.UserStats, error) {
	return s.load(ctx, userID)
}
