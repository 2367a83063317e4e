package postgres

import (
	"context"
	"database/sql"
	"time"

	"pomodoro/internal/domain"
)

const userColumns = `id, email, password_hash,
	work_minutes, short_break_minutes, long_break_minutes,
	theme_key, alarm_key, auto_loop, long_every,
	streak_current, streak_best, streak_last_active_day, created_at`

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var lastActive sql.NullString
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash,
		&u.Settings.WorkTime, &u.Settings.ShortBreak, &u.Settings.LongBreak,
		&u.UI.ThemeKey, &u.UI.AlarmKey, &u.UI.AutoLoop, &u.UI.LongEvery,
		&u.Streak.Current, &u.Streak.Best, &lastActive, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Streak.LastActiveDay = lastActive.String
	return &u, nil
}

// GetByEmail retrieves a user by email.
func (d *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

// Create creates a new user with default settings and an empty streak.
func (d *DB) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"INSERT INTO users (email, password_hash, created_at) VALUES ($1, $2, $3) RETURNING "+userColumns,
		email, passwordHash, time.Now()))
}

// UpdateSettings persists the user's timer and UI preferences.
func (d *DB) UpdateSettings(ctx context.Context, userID int64, s domain.TimerSettings, ui domain.UISettings) error {
	res, err := d.sql.ExecContext(ctx,
		`UPDATE users SET work_minutes=$1, short_break_minutes=$2, long_break_minutes=$3,
			theme_key=$4, alarm_key=$5, auto_loop=$6, long_every=$7
		WHERE id=$8`,
		s.WorkTime, s.ShortBreak, s.LongBreak,
		ui.ThemeKey, ui.AlarmKey, ui.AutoLoop, ui.LongEvery,
		userID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetStreak returns the user's current streak state.
func (d *DB) GetStreak(ctx context.Context, userID int64) (domain.StreakState, error) {
	var st domain.StreakState
	var lastActive sql.NullString
	err := d.sql.QueryRowContext(ctx,
		"SELECT streak_current, streak_best, streak_last_active_day FROM users WHERE id = $1",
		userID,
	).Scan(&st.Current, &st.Best, &lastActive)
	if err == sql.ErrNoRows {
		return st, domain.ErrNotFound
	}
	if err != nil {
		return st, err
	}
	st.LastActiveDay = lastActive.String
	return st, nil
}

// UpdateStreak applies the transition inside a transaction holding a row
// lock on the user, so concurrent submissions for the same user are
// serialized and cannot both read the same prior state.
func (d *DB) UpdateStreak(ctx context.Context, userID int64, apply func(domain.StreakState) domain.StreakState) (domain.StreakState, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return domain.StreakState{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	var prev domain.StreakState
	var lastActive sql.NullString
	err = tx.QueryRowContext(ctx,
		"SELECT streak_current, streak_best, streak_last_active_day FROM users WHERE id = $1 FOR UPDATE",
		userID,
	).Scan(&prev.Current, &prev.Best, &lastActive)
	if err == sql.ErrNoRows {
		return domain.StreakState{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.StreakState{}, err
	}
	prev.LastActiveDay = lastActive.String

	next := apply(prev)

	var nextLast sql.NullString
	if next.LastActiveDay != "" {
		nextLast = sql.NullString{String: next.LastActiveDay, Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET streak_current=$1, streak_best=$2, streak_last_active_day=$3 WHERE id=$4",
		next.Current, next.Best, nextLast, userID,
	); err != nil {
		return domain.StreakState{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.StreakState{}, err
	}
	return next, nil
}
