package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/akehlen/buzzquiz/internal/dependencies/clock"
	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/services/buzzer"
	"github.com/akehlen/buzzquiz/internal/services/progression"
	"github.com/akehlen/buzzquiz/internal/services/scoring"
	"github.com/akehlen/buzzquiz/internal/services/stats"
	"github.com/akehlen/buzzquiz/internal/services/turn"
	"github.com/akehlen/buzzquiz/internal/storage"
)

// Publisher broadcasts session events to connected clients
type Publisher interface {
	Publish(event model.Event)
}

// Controller drives the question lifecycle state machine:
// idle -> answering -> buzzing -> idle, with GameOver detected by the
// progression service after every resolution.
//
// Every mutating operation reloads the game state and re-checks the
// current question status before writing, so stale retries and
// concurrent timeout observers degrade to no-ops instead of corrupting
// state. Invalid attempts are silent no-ops: they are an expected
// artifact of clients acting on out-of-date snapshots.
type Controller struct {
	storage     storage.Storage
	turns       *turn.Service
	scoring     *scoring.Service
	buzzer      *buzzer.Service
	progression *progression.Service
	stats       *stats.Service
	clock       clock.Clock
	publisher   Publisher
	logger      *slog.Logger
}

// NewController creates a new game controller
func NewController(
	storage storage.Storage,
	turns *turn.Service,
	scoringService *scoring.Service,
	buzzerService *buzzer.Service,
	progressionService *progression.Service,
	statsService *stats.Service,
	clk clock.Clock,
	publisher Publisher,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:     storage,
		turns:       turns,
		scoring:     scoringService,
		buzzer:      buzzerService,
		progression: progressionService,
		stats:       statsService,
		clock:       clk,
		publisher:   publisher,
		logger:      logger,
	}
}

// load fetches a fresh session and game state snapshot
func (c *Controller) load(ctx context.Context, sessionID model.SessionID) (*model.Session, *model.GameState, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	gs, err := c.storage.GetGameState(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, gs, nil
}

// isHost reports whether the caller is the session host
func isHost(session *model.Session, callerID model.PlayerID) bool {
	p := session.GetPlayer(callerID)
	return p != nil && p.IsHost
}

// noop logs a rejected transition at debug level and swallows it
func (c *Controller) noop(sessionID model.SessionID, op, reason string) error {
	c.logger.Debug("ignored stale transition",
		slog.String("session_id", string(sessionID)),
		slog.String("op", op),
		slog.String("reason", reason),
	)
	return nil
}

// GetState returns the current game state record
func (c *Controller) GetState(ctx context.Context, sessionID model.SessionID) (*model.GameState, error) {
	return c.storage.GetGameState(ctx, sessionID)
}

// GetResults returns the final ranking of a finished session
func (c *Controller) GetResults(ctx context.Context, sessionID model.SessionID) ([]model.PlayerResult, error) {
	return c.storage.GetResults(ctx, sessionID)
}

// UsedQuestions returns the set of questions already played this session
func (c *Controller) UsedQuestions(ctx context.Context, sessionID model.SessionID) (map[model.QuestionID]bool, error) {
	return c.storage.GetUsedQuestions(ctx, sessionID)
}

// SelectQuestion opens a question. Host-only, valid only while idle, on
// the active board, for a question not yet used. The turn holder becomes
// the active answerer.
func (c *Controller) SelectQuestion(ctx context.Context, sessionID model.SessionID, callerID model.PlayerID, questionID model.QuestionID) error {
	session, gs, err := c.load(ctx, sessionID)
	if err != nil {
		return err
	}

	if !isHost(session, callerID) {
		return c.noop(sessionID, "select_question", "caller is not host")
	}
	if session.Status != model.SessionStatusRunning {
		return c.noop(sessionID, "select_question", "session not running")
	}
	if gs.QuestionStatus != model.QuestionStatusIdle {
		return c.noop(sessionID, "select_question", "question already open")
	}

	question, err := c.questionOnActiveBoard(ctx, session, gs, questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return c.noop(sessionID, "select_question", "question not selectable")
	}

	used, err := c.storage.GetUsedQuestions(ctx, sessionID)
	if err != nil {
		return err
	}
	if used[questionID] {
		return c.noop(sessionID, "select_question", "question already used")
	}

	if err := c.turns.EnsureCurrentPlayer(ctx, session, gs); err != nil {
		return err
	}
	if gs.CurrentPlayerID == "" {
		return c.noop(sessionID, "select_question", "no contestants to answer")
	}

	gs.CurrentQuestionID = questionID
	gs.ActiveAnsweringPlayerID = gs.CurrentPlayerID
	gs.QuestionStatus = model.QuestionStatusAnswering
	gs.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGameState(ctx, gs); err != nil {
		return err
	}

	c.logger.Info("question selected",
		slog.String("session_id", string(sessionID)),
		slog.String("question_id", string(questionID)),
		slog.String("answering_player", string(gs.ActiveAnsweringPlayerID)),
	)
	c.publish(model.Event{
		Type:      model.EventQuestionSelected,
		SessionID: sessionID,
		PlayerID:  gs.ActiveAnsweringPlayerID,
		Payload: model.QuestionSelectedPayload{
			QuestionID: questionID,
			Points:     scoring.CorrectDelta(question.Points, gs.ActiveBoard),
			Board:      gs.ActiveBoard,
		},
	})
	return nil
}

// questionOnActiveBoard returns the question if it belongs to the
// session's quiz and the active board, nil otherwise
func (c *Controller) questionOnActiveBoard(ctx context.Context, session *model.Session, gs *model.GameState, questionID model.QuestionID) (*model.Question, error) {
	questions, err := c.storage.GetQuestionsForQuiz(ctx, session.QuizID)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		if q.ID == questionID && q.Board == gs.ActiveBoard {
			return q, nil
		}
	}
	return nil, nil
}

// judgeTarget resolves who the host's correct/wrong verdict applies to:
// the active answerer, else the head of the buzz queue, else the turn
// holder.
func (c *Controller) judgeTarget(ctx context.Context, gs *model.GameState) (model.PlayerID, error) {
	if gs.ActiveAnsweringPlayerID != "" {
		return gs.ActiveAnsweringPlayerID, nil
	}
	if gs.QuestionStatus == model.QuestionStatusBuzzing {
		next, ok, err := c.buzzer.PeekNext(ctx, gs.SessionID, gs.CurrentQuestionID)
		if err != nil {
			return "", err
		}
		if ok {
			return next, nil
		}
	}
	return gs.CurrentPlayerID, nil
}

// MarkCorrect awards the current answerer the question's multiplied
// points and resolves the question. Host-only, valid in answering or
// buzzing.
func (c *Controller) MarkCorrect(ctx context.Context, sessionID model.SessionID, callerID model.PlayerID) error {
	session, gs, err := c.load(ctx, sessionID)
	if err != nil {
		return err
	}

	if !isHost(session, callerID) {
		return c.noop(sessionID, "mark_correct", "caller is not host")
	}
	if !gs.QuestionOpen() {
		return c.noop(sessionID, "mark_correct", "no question open")
	}

	question, err := c.storage.GetQuestion(ctx, gs.CurrentQuestionID)
	if err != nil {
		return err
	}

	target, err := c.judgeTarget(ctx, gs)
	if err != nil {
		return err
	}
	if target == "" {
		return c.noop(sessionID, "mark_correct", "no player to credit")
	}

	delta := scoring.CorrectDelta(question.Points, gs.ActiveBoard)
	if err := c.judge(ctx, session, gs, target, question.ID, true, delta); err != nil {
		return err
	}

	return c.resolveQuestion(ctx, session, gs)
}

// MarkWrong penalizes the current answerer by half the multiplied points.
// From the initial answer it opens the buzz race window; while
// adjudicating the buzz queue it removes the candidate and promotes the
// next, resolving the question when the queue is exhausted. Host-only.
func (c *Controller) MarkWrong(ctx context.Context, sessionID model.SessionID, callerID model.PlayerID) error {
	session, gs, err := c.load(ctx, sessionID)
	if err != nil {
		return err
	}

	if !isHost(session, callerID) {
		return c.noop(sessionID, "mark_wrong", "caller is not host")
	}
	if !gs.QuestionOpen() {
		return c.noop(sessionID, "mark_wrong", "no question open")
	}

	question, err := c.storage.GetQuestion(ctx, gs.CurrentQuestionID)
	if err != nil {
		return err
	}

	target, err := c.judgeTarget(ctx, gs)
	if err != nil {
		return err
	}
	if target == "" {
		return c.noop(sessionID, "mark_wrong", "no player to penalize")
	}

	delta := scoring.WrongDelta(question.Points, gs.ActiveBoard)
	if err := c.judge(ctx, session, gs, target, question.ID, false, delta); err != nil {
		return err
	}

	buzzes, err := c.storage.GetBuzzes(ctx, sessionID, question.ID)
	if err != nil {
		return err
	}

	if gs.QuestionStatus == model.QuestionStatusAnswering && len(buzzes) == 0 && gs.BuzzWindowStartedAt.IsZero() {
		// First wrong answer: open the race window. It is opened at most
		// once per question, even if a promoted candidate later answers
		// wrong from the answering state.
		gs.QuestionStatus = model.QuestionStatusBuzzing
		gs.ActiveAnsweringPlayerID = ""
		gs.BuzzWindowStartedAt = c.clock.Now()
		gs.UpdatedAt = gs.BuzzWindowStartedAt
		return c.storage.SaveGameState(ctx, gs)
	}

	// Adjudicating the buzz queue
	if err := c.buzzer.Remove(ctx, sessionID, question.ID, target); err != nil {
		return err
	}
	next, ok, err := c.buzzer.PeekNext(ctx, sessionID, question.ID)
	if err != nil {
		return err
	}
	if ok {
		gs.ActiveAnsweringPlayerID = next
		gs.QuestionStatus = model.QuestionStatusBuzzing
		gs.UpdatedAt = c.clock.Now()
		return c.storage.SaveGameState(ctx, gs)
	}

	return c.resolveQuestion(ctx, session, gs)
}

// judge applies the score delta against a freshly read session, writes
// the answer record and updates lifetime stats
func (c *Controller) judge(ctx context.Context, session *model.Session, gs *model.GameState, target model.PlayerID, questionID model.QuestionID, correct bool, delta int) error {
	newScore, err := c.scoring.ApplyDelta(ctx, session.ID, target, delta)
	if err != nil {
		return err
	}

	record := &model.AnswerRecord{
		SessionID:   session.ID,
		PlayerID:    target,
		QuestionID:  questionID,
		Correct:     correct,
		PointsDelta: delta,
		JudgedAt:    c.clock.Now(),
	}
	if err := c.storage.AppendAnswerRecord(ctx, record); err != nil {
		// Audit entries are best-effort
		c.logger.Warn("failed to append answer record",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
	}

	if p := session.GetPlayer(target); p != nil {
		c.stats.RecordAnswer(ctx, p.UserID, correct)
	}

	c.publish(model.Event{
		Type:      model.EventAnswerJudged,
		SessionID: session.ID,
		PlayerID:  target,
		Payload: model.AnswerJudgedPayload{
			QuestionID:  questionID,
			Correct:     correct,
			PointsDelta: delta,
			NewScore:    newScore,
		},
	})
	return nil
}

// SkipQuestion is the host's escape hatch out of a bad question: marks it
// used, clears all buzz state and advances the turn. No penalty applies.
func (c *Controller) SkipQuestion(ctx context.Context, sessionID model.SessionID, callerID model.PlayerID) error {
	session, gs, err := c.load(ctx, sessionID)
	if err != nil {
		return err
	}

	if !isHost(session, callerID) {
		return c.noop(sessionID, "skip_question", "caller is not host")
	}
	if !gs.QuestionOpen() {
		return c.noop(sessionID, "skip_question", "no question open")
	}

	c.publish(model.Event{
		Type:      model.EventQuestionSkipped,
		SessionID: sessionID,
		Payload:   model.QuestionSelectedPayload{QuestionID: gs.CurrentQuestionID, Board: gs.ActiveBoard},
	})
	return c.resolveQuestion(ctx, session, gs)
}

// SelectBuzzer is the host's manual override during buzzing: promotes an
// arbitrary queued candidate to active answerer without consuming the
// first-come-first-served order.
func (c *Controller) SelectBuzzer(ctx context.Context, sessionID model.SessionID, callerID, playerID model.PlayerID) error {
	session, gs, err := c.load(ctx, sessionID)
	if err != nil {
		return err
	}

	if !isHost(session, callerID) {
		return c.noop(sessionID, "select_buzzer", "caller is not host")
	}
	if gs.QuestionStatus != model.QuestionStatusBuzzing {
		return c.noop(sessionID, "select_buzzer", "not in buzzing phase")
	}

	buzzes, err := c.storage.GetBuzzes(ctx, sessionID, gs.CurrentQuestionID)
	if err != nil {
		return err
	}
	queued := false
	for _, b := range buzzes {
		if b.PlayerID == playerID {
			queued = true
			break
		}
	}
	if !queued {
		return c.noop(sessionID, "select_buzzer", "player has not buzzed")
	}

	gs.ActiveAnsweringPlayerID = playerID
	gs.QuestionStatus = model.QuestionStatusAnswering
	gs.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGameState(ctx, gs); err != nil {
		return err
	}

	c.publish(model.Event{
		Type:      model.EventBuzzerSelected,
		SessionID: sessionID,
		PlayerID:  playerID,
	})
	return nil
}

// SubmitBuzz forwards a contestant's buzz to the arbiter and announces
// accepted buzzes
func (c *Controller) SubmitBuzz(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID, questionID model.QuestionID) error {
	if err := c.buzzer.SubmitBuzz(ctx, sessionID, playerID, questionID); err != nil {
		if errors.Is(err, model.ErrBuzzRejected) {
			return c.noop(sessionID, "submit_buzz", "buzz not eligible")
		}
		return err
	}

	buzzes, err := c.storage.GetBuzzes(ctx, sessionID, questionID)
	if err != nil {
		return err
	}
	c.publish(model.Event{
		Type:      model.EventBuzzAccepted,
		SessionID: sessionID,
		PlayerID:  playerID,
		Payload: model.BuzzAcceptedPayload{
			QuestionID:   questionID,
			ArrivalOrder: len(buzzes),
		},
	})
	return nil
}

// ResolveExpiredWindow is the timer-triggered exit from the buzzing
// phase: if the race window elapsed with an empty queue, the question is
// resolved as exhausted. Safe for any number of concurrent observers to
// call; the status re-check makes resolution take effect exactly once.
// With a non-empty queue the window expiry only stops new buzzes and the
// host keeps adjudicating.
func (c *Controller) ResolveExpiredWindow(ctx context.Context, sessionID model.SessionID) error {
	session, gs, err := c.load(ctx, sessionID)
	if err != nil {
		return err
	}

	if gs.QuestionStatus != model.QuestionStatusBuzzing {
		return c.noop(sessionID, "resolve_window", "not in buzzing phase")
	}
	if !c.buzzer.WindowExpired(gs) {
		return c.noop(sessionID, "resolve_window", "window still open")
	}
	_, ok, err := c.buzzer.PeekNext(ctx, sessionID, gs.CurrentQuestionID)
	if err != nil {
		return err
	}
	if ok {
		return c.noop(sessionID, "resolve_window", "candidates still queued")
	}

	c.publish(model.Event{
		Type:      model.EventWindowExpired,
		SessionID: sessionID,
	})
	return c.resolveQuestion(ctx, session, gs)
}

// HandlePlayerLeave unblocks the engine when a contestant departs
// mid-game: their buzz is withdrawn, an abandoned answer is handed to the
// next candidate or resolved, and the turn advances past them. Invoked by
// the lobby controller before the player row is removed.
func (c *Controller) HandlePlayerLeave(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) error {
	session, gs, err := c.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status != model.SessionStatusRunning {
		return nil
	}

	resolved := false
	if gs.QuestionOpen() {
		resolved, err = c.dropFromQuestion(ctx, session, gs, playerID)
		if err != nil {
			return err
		}
	}

	// resolveQuestion already advanced the turn; otherwise hand the turn
	// to the cyclic successor while the departing player is still in the
	// snapshot, so the rotation does not skip anyone.
	if !resolved && gs.CurrentPlayerID == playerID {
		gs.CurrentPlayerID = c.turns.NextAfter(session, playerID)
		if gs.CurrentPlayerID == playerID {
			// Sole contestant leaving; rebootstrapped on next join
			gs.CurrentPlayerID = ""
		}
		gs.UpdatedAt = c.clock.Now()
		return c.storage.SaveGameState(ctx, gs)
	}
	return nil
}

// dropFromQuestion removes a departing player from the open question.
// Returns true if the question was resolved as a side effect.
func (c *Controller) dropFromQuestion(ctx context.Context, session *model.Session, gs *model.GameState, playerID model.PlayerID) (bool, error) {
	buzzes, err := c.storage.GetBuzzes(ctx, gs.SessionID, gs.CurrentQuestionID)
	if err != nil {
		return false, err
	}
	hadBuzz := false
	for _, b := range buzzes {
		if b.PlayerID == playerID {
			hadBuzz = true
			break
		}
	}
	if hadBuzz {
		if err := c.buzzer.Remove(ctx, gs.SessionID, gs.CurrentQuestionID, playerID); err != nil {
			return false, err
		}
	}

	wasActive := gs.ActiveAnsweringPlayerID == playerID
	if !wasActive && !hadBuzz {
		return false, nil
	}

	next, ok, err := c.buzzer.PeekNext(ctx, gs.SessionID, gs.CurrentQuestionID)
	if err != nil {
		return false, err
	}

	switch {
	case wasActive && ok:
		gs.ActiveAnsweringPlayerID = next
		gs.QuestionStatus = model.QuestionStatusBuzzing
		gs.UpdatedAt = c.clock.Now()
		return false, c.storage.SaveGameState(ctx, gs)
	case wasActive && gs.QuestionStatus == model.QuestionStatusAnswering && gs.BuzzWindowStartedAt.IsZero():
		// The first answerer vanished mid-answer: open the buzz window
		// so the others still get their chance at the question
		gs.QuestionStatus = model.QuestionStatusBuzzing
		gs.ActiveAnsweringPlayerID = ""
		gs.BuzzWindowStartedAt = c.clock.Now()
		gs.UpdatedAt = gs.BuzzWindowStartedAt
		return false, c.storage.SaveGameState(ctx, gs)
	case !ok:
		// Departed player held the only claim on the question; resolve
		// immediately rather than waiting out the window
		return true, c.resolveQuestion(ctx, session, gs)
	default:
		return false, nil
	}
}

// resolveQuestion closes the current question: marks it used, clears the
// buzz queue, advances the turn, returns to idle and consults progression
// for a board switch or game over.
func (c *Controller) resolveQuestion(ctx context.Context, session *model.Session, gs *model.GameState) error {
	if gs.CurrentQuestionID != "" {
		if err := c.storage.MarkQuestionUsed(ctx, session.ID, gs.CurrentQuestionID); err != nil {
			return err
		}
	}
	if err := c.buzzer.Clear(ctx, session.ID); err != nil {
		return err
	}

	gs.CurrentPlayerID = c.turns.NextAfter(session, gs.CurrentPlayerID)
	gs.ClearQuestion()
	gs.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGameState(ctx, gs); err != nil {
		return err
	}

	outcome, err := c.progression.Advance(ctx, session, gs)
	if err != nil {
		return err
	}
	switch outcome {
	case progression.OutcomeBoardSwitched:
		c.publish(model.Event{
			Type:      model.EventBoardAdvanced,
			SessionID: session.ID,
			Payload:   model.BoardAdvancedPayload{ActiveBoard: gs.ActiveBoard},
		})
	case progression.OutcomeGameOver:
		return c.finishGame(ctx, session, gs)
	}
	return nil
}

// finishGame emits the final ranking exactly once and closes the session
func (c *Controller) finishGame(ctx context.Context, session *model.Session, gs *model.GameState) error {
	if gs.ResultsEmitted {
		return nil
	}

	// Scores were written through storage; rank from a fresh snapshot
	session, err := c.storage.GetSession(ctx, session.ID)
	if err != nil {
		return err
	}

	ranking := progression.ComputeRanking(session)
	if err := c.storage.SaveResults(ctx, session.ID, ranking); err != nil {
		return err
	}

	gs.ResultsEmitted = true
	gs.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGameState(ctx, gs); err != nil {
		return err
	}

	session.Status = model.SessionStatusFinished
	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	c.stats.RecordGame(ctx, ranking)

	c.logger.Info("game over",
		slog.String("session_id", string(session.ID)),
		slog.Int("contestants", len(ranking)),
	)
	c.publish(model.Event{
		Type:      model.EventGameOver,
		SessionID: session.ID,
		Payload:   model.GameOverPayload{Ranking: ranking},
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
