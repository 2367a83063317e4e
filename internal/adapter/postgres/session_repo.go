package postgres

import (
	"context"
	"database/sql"
	"time"

	"pomodoro/internal/domain"
)

// InsertSession persists a completed timer interval.
func (d *DB) InsertSession(ctx context.Context, s domain.Session) (*domain.Session, error) {
	var taskID sql.NullString
	if s.TaskID != "" {
		taskID = sql.NullString{String: s.TaskID, Valid: true}
	}
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, duration, mode, task_id, completed_at, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		s.ID, s.UserID, s.Duration, string(s.Mode), taskID, s.CompletedAt.UTC(), time.Now(),
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListWorkSessionsSince returns the user's work sessions completed at or
// after since, filtered server-side.
func (d *DB) ListWorkSessionsSince(ctx context.Context, userID int64, since time.Time) ([]domain.Session, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, duration, mode, task_id, completed_at FROM sessions WHERE user_id=$1 AND mode='work' AND completed_at >= $2 ORDER BY completed_at",
		userID, since.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Session
	for rows.Next() {
		var s domain.Session
		var taskID sql.NullString
		if err := rows.Scan(&s.ID, &s.Duration, &s.Mode, &taskID, &s.CompletedAt); err != nil {
			return nil, err
		}
		s.UserID = userID
		s.TaskID = taskID.String
		out = append(out, s)
	}
	return out, rows.Err()
}
