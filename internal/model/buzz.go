package model

import "time"

// BuzzEvent records a contestant's attempt to claim the right to answer.
// Rows are append-only per question; ArrivalOrder is assigned by storage,
// monotonic within a question, and defines the arbitration order.
type BuzzEvent struct {
	SessionID    SessionID
	QuestionID   QuestionID
	PlayerID     PlayerID
	ArrivalOrder int
	BuzzedAt     time.Time
}
