package turn

import (
	"context"
	"log/slog"

	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/storage"
)

// Service computes and rotates whose turn it is among non-host players.
// The rotation functions are pure over a session snapshot; only
// EnsureCurrentPlayer touches storage.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new turn scheduler
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// NextAfter returns the cyclic successor of currentID among the session's
// contestants. If currentID is empty or no longer present, the first
// contestant by turn order is returned. Returns empty if there are no
// contestants.
func (s *Service) NextAfter(session *model.Session, currentID model.PlayerID) model.PlayerID {
	contestants := session.Contestants()
	if len(contestants) == 0 {
		return ""
	}

	for i, p := range contestants {
		if p.ID == currentID {
			return contestants[(i+1)%len(contestants)].ID
		}
	}
	return contestants[0].ID
}

// Rebalance removes the departed player from the session and compacts
// turn order for the remaining contestants without changing their
// relative order. The session is mutated in place; the caller persists it.
func (s *Service) Rebalance(session *model.Session, departed model.PlayerID) {
	players := session.Players[:0]
	for _, p := range session.Players {
		if p.ID != departed {
			players = append(players, p)
		}
	}
	session.Players = players

	// Compact contestant turn orders to be contiguous from 0
	for i, c := range session.Contestants() {
		if p := session.GetPlayer(c.ID); p != nil {
			p.TurnOrder = i
		}
	}
}

// EnsureCurrentPlayer bootstraps the turn holder: if the game state has no
// current player and at least one contestant exists, the first by turn
// order becomes current. A no-op otherwise, deferred until a contestant
// joins.
func (s *Service) EnsureCurrentPlayer(ctx context.Context, session *model.Session, gs *model.GameState) error {
	if gs.CurrentPlayerID != "" {
		if session.GetPlayer(gs.CurrentPlayerID) != nil {
			return nil
		}
		// Turn holder left without a handoff; fall through to re-bootstrap
	}

	contestants := session.Contestants()
	if len(contestants) == 0 {
		return nil
	}

	gs.CurrentPlayerID = contestants[0].ID
	s.logger.Debug("bootstrapped current player",
		slog.String("session_id", string(session.ID)),
		slog.String("player_id", string(gs.CurrentPlayerID)),
	)
	return s.storage.SaveGameState(ctx, gs)
}
