package model

import "time"

// QuestionStatus represents the phase of the current question
type QuestionStatus string

const (
	QuestionStatusIdle      QuestionStatus = "idle"      // No question open
	QuestionStatusAnswering QuestionStatus = "answering" // One player answering
	QuestionStatusBuzzing   QuestionStatus = "buzzing"   // Race window / queue adjudication
	QuestionStatusResolved  QuestionStatus = "resolved"  // Transitional, cleared on next select
)

// GameState is the per-session working memory of the state machine.
// Exactly one exists per session; all fields are written only by the
// host's driver (single-writer discipline).
type GameState struct {
	SessionID               SessionID
	CurrentPlayerID         PlayerID   // turn holder; empty until first contestant joins
	CurrentQuestionID       QuestionID // empty when idle
	QuestionStatus          QuestionStatus
	ActiveAnsweringPlayerID PlayerID
	ActiveBoard             int       // 1 or 2
	BuzzWindowStartedAt     time.Time // zero unless a race window has been opened for the current question
	ResultsEmitted          bool      // guards the one-shot end-of-game result emission
	UpdatedAt               time.Time
}

// ClearQuestion resets all question-scoped fields back to idle
func (gs *GameState) ClearQuestion() {
	gs.CurrentQuestionID = ""
	gs.ActiveAnsweringPlayerID = ""
	gs.QuestionStatus = QuestionStatusIdle
	gs.BuzzWindowStartedAt = time.Time{}
}

// QuestionOpen reports whether a question is currently being played
func (gs *GameState) QuestionOpen() bool {
	return gs.QuestionStatus == QuestionStatusAnswering || gs.QuestionStatus == QuestionStatusBuzzing
}
