package app

import (
	"context"
	"fmt"

	"pomodoro/internal/domain"
)

// SettingsService reads and updates a user's timer and UI preferences.
type SettingsService struct {
	users domain.UserRepository
}

// NewSettingsService creates a SettingsService backed by the given repository.
func NewSettingsService(users domain.UserRepository) *SettingsService {
	return &SettingsService{users: users}
}

// SettingsPatch is a partial settings update. Nil fields are left untouched.
type SettingsPatch struct {
	WorkTime   *int
	ShortBreak *int
	LongBreak  *int
	ThemeKey   *string
	AlarmKey   *string
	AutoLoop   *bool
	LongEvery  *int
}

// Get returns the user's current settings.
func (s *SettingsService) Get(ctx context.Context, userID int64) (domain.TimerSettings, domain.UISettings, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.TimerSettings{}, domain.UISettings{}, err
	}
	if user == nil {
		return domain.TimerSettings{}, domain.UISettings{}, domain.ErrNotFound
	}
	return user.Settings, user.UI, nil
}

// Update merges the patch into the user's settings. Timer durations must
// be 1..600 minutes; longEvery is clamped to 2..12.
func (s *SettingsService) Update(ctx context.Context, userID int64, p SettingsPatch) (domain.TimerSettings, domain.UISettings, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.TimerSettings{}, domain.UISettings{}, err
	}
	if user == nil {
		return domain.TimerSettings{}, domain.UISettings{}, domain.ErrNotFound
	}

	settings, ui := user.Settings, user.UI

	if p.WorkTime != nil {
		if !validMinutes(*p.WorkTime) {
			return settings, ui, fmt.Errorf("%w: invalid workTime", ErrInvalidInput)
		}
		settings.WorkTime = *p.WorkTime
	}
	if p.ShortBreak != nil {
		if !validMinutes(*p.ShortBreak) {
			return settings, ui, fmt.Errorf("%w: invalid shortBreak", ErrInvalidInput)
		}
		settings.ShortBreak = *p.ShortBreak
	}
	if p.LongBreak != nil {
		if !validMinutes(*p.LongBreak) {
			return settings, ui, fmt.Errorf("%w: invalid longBreak", ErrInvalidInput)
		}
		settings.LongBreak = *p.LongBreak
	}

	if p.ThemeKey != nil {
		ui.ThemeKey = *p.ThemeKey
	}
	if p.AlarmKey != nil {
		ui.AlarmKey = *p.AlarmKey
	}
	if p.AutoLoop != nil {
		ui.AutoLoop = *p.AutoLoop
	}
	if p.LongEvery != nil {
		n := *p.LongEvery
		if n < 2 {
			n = 2
		}
		if n > 12 {
			n = 12
		}
		ui.LongEvery = n
	}

	if err := s.users.UpdateSettings(ctx, userID, settings, ui); err != nil {
		return settings, ui, err
	}
	return settings, ui, nil
}

func validMinutes(n int) bool {
	return n >= 1 && n <= 600
}
