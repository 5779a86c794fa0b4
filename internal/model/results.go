package model

import "time"

// PlayerResult is one row of the final ranking handed to the results sink.
// Emitted exactly once per session, at the GameOver transition.
type PlayerResult struct {
	PlayerID   PlayerID
	Name       string
	UserID     UserID // empty for guests
	FinalScore int
	IsWinner   bool // score equal to the maximum; ties share the flag
	Rank       int  // 1-based; ties preserve turn order
}

// AnswerRecord is a per-answer audit entry for external analytics.
// Best-effort; not required for gameplay correctness.
type AnswerRecord struct {
	SessionID   SessionID
	PlayerID    PlayerID
	QuestionID  QuestionID
	Correct     bool
	PointsDelta int
	JudgedAt    time.Time
}
