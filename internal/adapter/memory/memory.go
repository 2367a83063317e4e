// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pomodoro/internal/domain"
)

// DB implements an in-memory database storage. The single mutex also
// serves as the per-user serialization for streak updates.
type DB struct {
	mu           sync.Mutex
	sessions     []domain.Session
	tasks        []*domain.Task
	users        []*domain.User
	authSessions map[string]*domain.AuthSession

	userIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		authSessions: make(map[string]*domain.AuthSession),
	}
}

// Ensure interfaces are met.
var _ domain.SessionRepository = (*DB)(nil)
var _ domain.TaskRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.AuthSessionRepository = (*AuthSessionRepo)(nil)

// --- SessionRepository ---

// InsertSession stores a completed timer interval.
func (db *DB) InsertSession(ctx context.Context, s domain.Session) (*domain.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	s.CompletedAt = s.CompletedAt.UTC()
	db.sessions = append(db.sessions, s)
	return &s, nil
}

// ListWorkSessionsSince returns the user's work sessions completed at or after since.
func (db *DB) ListWorkSessionsSince(ctx context.Context, userID int64, since time.Time) ([]domain.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Session
	for _, s := range db.sessions {
		if s.UserID == userID && s.Mode == domain.ModeWork && !s.CompletedAt.Before(since) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	return out, nil
}

// --- TaskRepository ---

// ListTasks returns the user's tasks, active first.
func (db *DB) ListTasks(ctx context.Context, userID int64) ([]domain.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Task
	for _, t := range db.tasks {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Status != b.Status {
			return a.Status < b.Status
		}
		// due ascending, unset last
		switch {
		case a.Due == nil && b.Due != nil:
			return false
		case a.Due != nil && b.Due == nil:
			return true
		case a.Due != nil && b.Due != nil && !a.Due.Equal(*b.Due):
			return a.Due.Before(*b.Due)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out, nil
}

// CreateTask stores a new task.
func (db *DB) CreateTask(ctx context.Context, t domain.Task) (*domain.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored := t
	db.tasks = append(db.tasks, &stored)
	ret := stored
	return &ret, nil
}

// UpdateTask applies a partial update to one of the user's tasks.
func (db *DB) UpdateTask(ctx context.Context, userID int64, id string, p domain.TaskPatch) (*domain.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	t := db.findTask(userID, id)
	if t == nil {
		return nil, domain.ErrNotFound
	}

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueSet {
		t.Due = p.Due
	}
	if p.EstimatePoms != nil {
		t.EstimatePoms = *p.EstimatePoms
	}
	if p.ActualPoms != nil {
		t.ActualPoms = *p.ActualPoms
	}
	t.UpdatedAt = time.Now().UTC()

	ret := *t
	return &ret, nil
}

// DeleteTask removes one of the user's tasks.
func (db *DB) DeleteTask(ctx context.Context, userID int64, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, t := range db.tasks {
		if t.ID == id && t.UserID == userID {
			db.tasks = append(db.tasks[:i], db.tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// IncrementActualPoms bumps the task's completed-pomodoro counter by one.
func (db *DB) IncrementActualPoms(ctx context.Context, userID int64, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	t := db.findTask(userID, id)
	if t == nil {
		return domain.ErrNotFound
	}
	t.ActualPoms++
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (db *DB) findTask(userID int64, id string) *domain.Task {
	for _, t := range db.tasks {
		if t.ID == id && t.UserID == userID {
			return t
		}
	}
	return nil
}

// --- UserRepository ---

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			ret := *u
			return &ret, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			ret := *u
			return &ret, nil
		}
	}
	return nil, nil
}

// Create creates a new user with default settings and an empty streak.
func (db *DB) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Email:        email,
		PasswordHash: passwordHash,
		Settings:     domain.DefaultTimerSettings(),
		UI:           domain.DefaultUISettings(),
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	ret := *u
	return &ret, nil
}

// UpdateSettings persists the user's timer and UI preferences.
func (db *DB) UpdateSettings(ctx context.Context, userID int64, s domain.TimerSettings, ui domain.UISettings) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == userID {
			u.Settings = s
			u.UI = ui
			return nil
		}
	}
	return domain.ErrNotFound
}

// GetStreak returns the user's current streak state.
func (db *DB) GetStreak(ctx context.Context, userID int64) (domain.StreakState, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == userID {
			return u.Streak, nil
		}
	}
	return domain.StreakState{}, domain.ErrNotFound
}

// UpdateStreak applies the transition while holding the store lock, so
// concurrent submissions cannot both observe the same prior state.
func (db *DB) UpdateStreak(ctx context.Context, userID int64, apply func(domain.StreakState) domain.StreakState) (domain.StreakState, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == userID {
			u.Streak = apply(u.Streak)
			return u.Streak, nil
		}
	}
	return domain.StreakState{}, domain.ErrNotFound
}

// --- AuthSessionRepository ---

// AuthSessionRepo implements login session persistence.
type AuthSessionRepo struct {
	db *DB
}

// NewAuthSessionRepo creates a new login session repository.
func (db *DB) NewAuthSessionRepo() *AuthSessionRepo {
	return &AuthSessionRepo{db: db}
}

// Create creates a new login session.
func (r *AuthSessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.authSessions[token] = &domain.AuthSession{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a login session by token.
func (r *AuthSessionRepo) GetByToken(ctx context.Context, token string) (*domain.AuthSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.authSessions[token]; ok {
		ret := *s
		return &ret, nil
	}
	return nil, nil
}

// Delete deletes a login session.
func (r *AuthSessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.authSessions, token)
	return nil
}

// DeleteExpired deletes all expired login sessions.
func (r *AuthSessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.authSessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.authSessions, k)
		}
	}
	return nil
}
