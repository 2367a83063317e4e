package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"pomodoro/internal/domain"

	"github.com/google/uuid"
)

// SessionService records completed timer intervals and applies their
// streak and task side effects.
type SessionService struct {
	sessions domain.SessionRepository
	users    domain.UserRepository
	tasks    domain.TaskRepository
}

// NewSessionService creates a SessionService backed by the given repositories.
func NewSessionService(sessions domain.SessionRepository, users domain.UserRepository, tasks domain.TaskRepository) *SessionService {
	return &SessionService{sessions: sessions, users: users, tasks: tasks}
}

// Record validates and persists a completed interval. Work sessions of at
// least ten minutes advance the user's streak and, when tied to a task,
// bump that task's completed-pomodoro count. The session insert is the
// only hard-failure path: once it succeeds the caller gets the session
// back even if the streak or task update fails, which is logged and
// swallowed so a rare missed increment never costs the timer its
// completion feedback.
func (s *SessionService) Record(ctx context.Context, userID int64, duration int, mode domain.Mode, taskID string, completedAt time.Time) (*domain.Session, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be a positive number of seconds", ErrInvalidInput)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: mode must be one of work, shortBreak, longBreak", ErrInvalidInput)
	}
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	sess := domain.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		Duration:    duration,
		Mode:        mode,
		TaskID:      taskID,
		CompletedAt: completedAt,
	}

	created, err := s.sessions.InsertSession(ctx, sess)
	if err != nil {
		return nil, err
	}

	if created.Countable() {
		today := domain.DayKeyUTC(created.CompletedAt)
		if _, err := s.users.UpdateStreak(ctx, userID, func(prev domain.StreakState) domain.StreakState {
			return domain.NextStreak(prev, today)
		}); err != nil {
			log.Printf("streak update failed for user %d: %v", userID, err)
		}

		if created.TaskID != "" {
			if err := s.tasks.IncrementActualPoms(ctx, userID, created.TaskID); err != nil {
				log.Printf("task increment failed for task %s: %v", created.TaskID, err)
			}
		}
	}

	return created, nil
}
