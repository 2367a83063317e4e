package postgres

import (
	"context"
	"database/sql"
	"time"

	"pomodoro/internal/domain"
)

const taskColumns = "id, user_id, title, status, priority, due, estimate_poms, actual_poms, created_at, updated_at"

func scanTask(scan func(dest ...any) error) (*domain.Task, error) {
	var t domain.Task
	var due sql.NullTime
	err := scan(&t.ID, &t.UserID, &t.Title, &t.Status, &t.Priority, &due,
		&t.EstimatePoms, &t.ActualPoms, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time
		t.Due = &d
	}
	return &t, nil
}

// ListTasks returns the user's tasks, active first, then by due date with
// unset dates last, newest created first within a group.
func (d *DB) ListTasks(ctx context.Context, userID int64) ([]domain.Task, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id=$1 ORDER BY status, due ASC NULLS LAST, created_at DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// CreateTask inserts a new task.
func (d *DB) CreateTask(ctx context.Context, t domain.Task) (*domain.Task, error) {
	var due sql.NullTime
	if t.Due != nil {
		due = sql.NullTime{Time: *t.Due, Valid: true}
	}
	row := d.sql.QueryRowContext(ctx,
		`INSERT INTO tasks (id, user_id, title, status, priority, due, estimate_poms, actual_poms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $8) RETURNING `+taskColumns,
		t.ID, t.UserID, t.Title, t.Status, t.Priority, due, t.EstimatePoms, t.CreatedAt,
	)
	return scanTask(row.Scan)
}

// UpdateTask applies a partial update to one of the user's tasks.
func (d *DB) UpdateTask(ctx context.Context, userID int64, id string, p domain.TaskPatch) (*domain.Task, error) {
	var due sql.NullTime
	if p.Due != nil {
		due = sql.NullTime{Time: *p.Due, Valid: true}
	}
	row := d.sql.QueryRowContext(ctx,
		`UPDATE tasks SET
			title = COALESCE($1, title),
			status = COALESCE($2, status),
			priority = COALESCE($3, priority),
			due = CASE WHEN $4 THEN $5 ELSE due END,
			estimate_poms = COALESCE($6, estimate_poms),
			actual_poms = COALESCE($7, actual_poms),
			updated_at = $8
		WHERE id=$9 AND user_id=$10 RETURNING `+taskColumns,
		p.Title, p.Status, p.Priority, p.DueSet, due, p.EstimatePoms, p.ActualPoms,
		time.Now(), id, userID,
	)
	return scanTask(row.Scan)
}

// DeleteTask removes one of the user's tasks.
func (d *DB) DeleteTask(ctx context.Context, userID int64, id string) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM tasks WHERE id=$1 AND user_id=$2", id, userID)
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

// IncrementActualPoms bumps the task's completed-pomodoro counter by one,
// scoped to the owning user.
func (d *DB) IncrementActualPoms(ctx context.Context, userID int64, id string) error {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE tasks SET actual_poms = actual_poms + 1, updated_at = $1 WHERE id=$2 AND user_id=$3",
		time.Now(), id, userID,
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
