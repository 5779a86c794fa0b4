package lobby

import (
	"context"
	"log/slog"

	"github.com/akehlen/buzzquiz/internal/dependencies/clock"
	"github.com/akehlen/buzzquiz/internal/dependencies/random"
	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/services/game"
	"github.com/akehlen/buzzquiz/internal/services/turn"
	"github.com/akehlen/buzzquiz/internal/storage"
)

const (
	// JoinCodeLength is the length of generated join codes
	JoinCodeLength = 5
	// JoinCodeAlphabet avoids visually confusing characters
	JoinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// IDLength is the length of generated session and player IDs
	IDLength = 12
	// IDAlphabet is the characters used in generated IDs
	IDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Controller manages the session lifecycle: creation with a join code,
// contestant joining with turn order assignment, start, leave with turn
// compaction, and teardown.
type Controller struct {
	storage        storage.Storage
	gameController *game.Controller
	turns          *turn.Service
	clock          clock.Clock
	random         random.Random
	publisher      game.Publisher
	logger         *slog.Logger
}

// NewController creates a new lobby controller
func NewController(
	storage storage.Storage,
	gameController *game.Controller,
	turns *turn.Service,
	clk clock.Clock,
	rnd random.Random,
	publisher game.Publisher,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		gameController: gameController,
		turns:          turns,
		clock:          clk,
		random:         rnd,
		publisher:      publisher,
		logger:         logger,
	}
}

// CreateSession creates a session with the caller as host and an idle
// game state on board 1. MaxPlayers counts contestants only.
func (c *Controller) CreateSession(ctx context.Context, name, hostName string, quizID model.QuizID, maxPlayers int, userID model.UserID) (*model.Session, *model.Player, error) {
	if _, err := c.storage.GetQuiz(ctx, quizID); err != nil {
		return nil, nil, err
	}

	now := c.clock.Now()

	// Generate a unique join code
	var code model.JoinCode
	for {
		code = model.JoinCode(c.random.String(JoinCodeLength, JoinCodeAlphabet))
		exists, err := c.storage.JoinCodeExists(ctx, code)
		if err != nil {
			return nil, nil, err
		}
		if !exists {
			break
		}
	}

	host := model.Player{
		ID:        model.PlayerID(c.random.String(IDLength, IDAlphabet)),
		Name:      hostName,
		IsHost:    true,
		Connected: true,
		JoinedAt:  now,
	}

	session := &model.Session{
		ID:         model.SessionID(c.random.String(IDLength, IDAlphabet)),
		Name:       name,
		JoinCode:   code,
		QuizID:     quizID,
		MaxPlayers: maxPlayers,
		Status:     model.SessionStatusWaiting,
		Players:    []model.Player{host},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if userID != "" {
		session.Players[0].UserID = userID
	}
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, nil, err
	}

	gs := &model.GameState{
		SessionID:      session.ID,
		QuestionStatus: model.QuestionStatusIdle,
		ActiveBoard:    model.BoardOne,
		UpdatedAt:      now,
	}
	if err := c.storage.SaveGameState(ctx, gs); err != nil {
		return nil, nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(session.ID)),
		slog.String("join_code", string(code)),
		slog.Int("max_players", maxPlayers),
	)
	return session, &session.Players[0], nil
}

// GetSession retrieves a session by ID
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// GetSessionByJoinCode retrieves a session by its join code
func (c *Controller) GetSessionByJoinCode(ctx context.Context, code model.JoinCode) (*model.Session, error) {
	return c.storage.GetSessionByJoinCode(ctx, code)
}

// JoinSession adds a contestant to a waiting session, assigning the next
// turn order. When the last contestant slot fills, the game starts
// automatically.
func (c *Controller) JoinSession(ctx context.Context, code model.JoinCode, playerName string, userID model.UserID) (*model.Session, *model.Player, error) {
	session, err := c.storage.GetSessionByJoinCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	if session.Status != model.SessionStatusWaiting {
		return nil, nil, model.ErrSessionNotWaiting
	}
	if session.IsFull() {
		return nil, nil, model.ErrSessionFull
	}

	player := model.Player{
		ID:        model.PlayerID(c.random.String(IDLength, IDAlphabet)),
		Name:      playerName,
		TurnOrder: len(session.Contestants()),
		UserID:    userID,
		Connected: true,
		JoinedAt:  c.clock.Now(),
	}
	session.Players = append(session.Players, player)
	session.UpdatedAt = player.JoinedAt
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, nil, err
	}

	c.logger.Info("player joined",
		slog.String("session_id", string(session.ID)),
		slog.String("player_id", string(player.ID)),
		slog.Int("turn_order", player.TurnOrder),
	)
	c.publish(model.Event{
		Type:      model.EventPlayerJoined,
		SessionID: session.ID,
		PlayerID:  player.ID,
		Payload:   model.PlayerJoinedPayload{Player: player},
	})

	// All slots taken: start without waiting for a host click
	if session.IsFull() {
		if err := c.start(ctx, session); err != nil {
			return nil, nil, err
		}
	}

	joined := session.GetPlayer(player.ID)
	return session, joined, nil
}

// StartGame begins the game early at the host's request, before all
// contestant slots are filled
func (c *Controller) StartGame(ctx context.Context, sessionID model.SessionID, callerID model.PlayerID) error {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	caller := session.GetPlayer(callerID)
	if caller == nil || !caller.IsHost {
		return model.ErrNotHost
	}
	if session.Status != model.SessionStatusWaiting {
		return model.ErrSessionNotWaiting
	}
	if len(session.Contestants()) == 0 {
		return model.ErrNoContestants
	}

	return c.start(ctx, session)
}

// start flips the session to running and bootstraps the first turn
func (c *Controller) start(ctx context.Context, session *model.Session) error {
	session.Status = model.SessionStatusRunning
	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	gs, err := c.storage.GetGameState(ctx, session.ID)
	if err != nil {
		return err
	}
	if err := c.turns.EnsureCurrentPlayer(ctx, session, gs); err != nil {
		return err
	}

	c.logger.Info("game started",
		slog.String("session_id", string(session.ID)),
		slog.Int("contestants", len(session.Contestants())),
	)
	c.publish(model.Event{
		Type:      model.EventGameStarted,
		SessionID: session.ID,
		Payload: model.GameStartedPayload{
			QuizID:          session.QuizID,
			CurrentPlayerID: gs.CurrentPlayerID,
		},
	})
	return nil
}

// LeaveSession removes a player. A departing contestant first releases
// any claim on the open question and hands off the turn, then turn
// orders are compacted. A departing host ends the session.
func (c *Controller) LeaveSession(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) error {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	player := session.GetPlayer(playerID)
	if player == nil {
		return model.ErrNotInSession
	}

	if player.IsHost {
		return c.teardown(ctx, session)
	}

	if session.Status == model.SessionStatusRunning {
		if err := c.gameController.HandlePlayerLeave(ctx, sessionID, playerID); err != nil {
			return err
		}
		// HandlePlayerLeave may have swapped the running session state
		session, err = c.storage.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
	}

	name := player.Name
	c.turns.Rebalance(session, playerID)
	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	c.logger.Info("player left",
		slog.String("session_id", string(sessionID)),
		slog.String("player_id", string(playerID)),
	)
	c.publish(model.Event{
		Type:      model.EventPlayerLeft,
		SessionID: sessionID,
		PlayerID:  playerID,
		Payload:   model.PlayerLeftPayload{PlayerID: playerID, Name: name},
	})
	return nil
}

// EndSession tears the session down at the host's request
func (c *Controller) EndSession(ctx context.Context, sessionID model.SessionID, callerID model.PlayerID) error {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	caller := session.GetPlayer(callerID)
	if caller == nil || !caller.IsHost {
		return model.ErrNotHost
	}
	return c.teardown(ctx, session)
}

// teardown destroys the whole session aggregate
func (c *Controller) teardown(ctx context.Context, session *model.Session) error {
	if err := c.storage.ClearBuzzes(ctx, session.ID); err != nil {
		return err
	}
	if err := c.storage.DeleteGameState(ctx, session.ID); err != nil {
		return err
	}
	if err := c.storage.DeleteSession(ctx, session.ID); err != nil {
		return err
	}

	c.logger.Info("session ended", slog.String("session_id", string(session.ID)))
	c.publish(model.Event{
		Type:      model.EventSessionEnded,
		SessionID: session.ID,
	})
	return nil
}

func (c *Controller) publish(event model.Event) {
	if c.publisher == nil {
		return
	}
	event.Timestamp = c.clock.Now()
	c.publisher.Publish(event)
}
