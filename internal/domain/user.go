// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// TimerSettings are the user's configured interval lengths in minutes.
type TimerSettings struct {
	WorkTime   int `json:"workTime"`
	ShortBreak int `json:"shortBreak"`
	LongBreak  int `json:"longBreak"`
}

// UISettings are the user's presentation preferences.
type UISettings struct {
	ThemeKey  string `json:"themeKey"`
	AlarmKey  string `json:"alarmKey"`
	AutoLoop  bool   `json:"autoLoop"`
	LongEvery int    `json:"longEvery"`
}

// DefaultTimerSettings returns the settings assigned to new users.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{WorkTime: 25, ShortBreak: 5, LongBreak: 15}
}

// DefaultUISettings returns the UI preferences assigned to new users.
func DefaultUISettings() UISettings {
	return UISettings{ThemeKey: "dark", AlarmKey: "ding", AutoLoop: false, LongEvery: 4}
}

// User represents an authenticated user in the system.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Settings     TimerSettings
	UI           UISettings
	Streak       StreakState
	CreatedAt    time.Time
}

// AuthSession represents an active login session.
type AuthSession struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	UpdateSettings(ctx context.Context, userID int64, s TimerSettings, ui UISettings) error

	GetStreak(ctx context.Context, userID int64) (StreakState, error)
	// UpdateStreak applies the transition under per-user serialization so
	// racing submissions cannot lose an update.
	UpdateStreak(ctx context.Context, userID int64, apply func(StreakState) StreakState) (StreakState, error)
}

// AuthSessionRepository defines the port for login session persistence.
type AuthSessionRepository interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*AuthSession, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
