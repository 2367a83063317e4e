package postgres

import (
	"context"
	"database/sql"
	"time"

	"pomodoro/internal/domain"
)

// AuthSessionRepo implements login session persistence on DB.
type AuthSessionRepo struct {
	db *DB
}

// NewAuthSessionRepo wraps a DB as an AuthSessionRepository.
func NewAuthSessionRepo(db *DB) *AuthSessionRepo {
	return &AuthSessionRepo{db: db}
}

// Create creates a new login session.
func (r *AuthSessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO auth_sessions (token, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)",
		token, userID, expiresAt, time.Now(),
	)
	return err
}

// GetByToken retrieves a login session by token.
func (r *AuthSessionRepo) GetByToken(ctx context.Context, token string) (*domain.AuthSession, error) {
	var s domain.AuthSession
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT token, user_id, expires_at, created_at FROM auth_sessions WHERE token = $1",
		token,
	).Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete deletes a login session by token.
func (r *AuthSessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM auth_sessions WHERE token = $1", token)
	return err
}

// DeleteExpired deletes all expired login sessions.
func (r *AuthSessionRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM auth_sessions WHERE expires_at < $1", time.Now())
	return err
}
