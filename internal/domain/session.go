package domain

import (
	"context"
	"time"
)

// Mode classifies a completed timer interval.
type Mode string

// Timer modes.
const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	return m == ModeWork || m == ModeShortBreak || m == ModeLongBreak
}

// MinCountableSeconds is the floor below which a work session does not
// count toward the streak. Keeps accidental or trivially short
// completions from inflating it.
const MinCountableSeconds = 600

// Session is a single completed timer interval. Immutable once created.
type Session struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"userId"`
	Duration    int       `json:"duration"` // seconds
	Mode        Mode      `json:"mode"`
	TaskID      string    `json:"taskId,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

// Countable reports whether the session counts toward the streak.
func (s Session) Countable() bool {
	return s.Mode == ModeWork && s.Duration >= MinCountableSeconds
}

// SessionRepository is the port for session persistence.
type SessionRepository interface {
	InsertSession(ctx context.Context, s Session) (*Session, error)
	ListWorkSessionsSince(ctx context.Context, userID int64, since time.Time) ([]Session, error)
}
