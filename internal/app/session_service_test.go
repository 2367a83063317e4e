package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pomodoro/internal/app"
	"pomodoro/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock repositories (function-fields pattern)
// ---------------------------------------------------------------------------

type mockSessionRepo struct {
	insertFn func(ctx context.Context, s domain.Session) (*domain.Session, error)
	listFn   func(ctx context.Context, userID int64, since time.Time) ([]domain.Session, error)
}

func (m *mockSessionRepo) InsertSession(ctx context.Context, s domain.Session) (*domain.Session, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, s)
	}
	return &s, nil
}

func (m *mockSessionRepo) ListWorkSessionsSince(ctx context.Context, userID int64, since time.Time) ([]domain.Session, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, since)
	}
	return nil, nil
}

type mockUserRepo struct {
	getByEmailFn     func(ctx context.Context, email string) (*domain.User, error)
	getByIDFn        func(ctx context.Context, id int64) (*domain.User, error)
	createFn         func(ctx context.Context, email, passwordHash string) (*domain.User, error)
	updateSettingsFn func(ctx context.Context, userID int64, s domain.TimerSettings, ui domain.UISettings) error
	getStreakFn      func(ctx context.Context, userID int64) (domain.StreakState, error)
	updateStreakFn   func(ctx context.Context, userID int64, apply func(domain.StreakState) domain.StreakState) (domain.StreakState, error)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, email, passwordHash)
	}
	return &domain.User{ID: 1, Email: email, PasswordHash: passwordHash}, nil
}

func (m *mockUserRepo) UpdateSettings(ctx context.Context, userID int64, s domain.TimerSettings, ui domain.UISettings) error {
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(ctx, userID, s, ui)
	}
	return nil
}

func (m *mockUserRepo) GetStreak(ctx context.Context, userID int64) (domain.StreakState, error) {
	if m.getStreakFn != nil {
		return m.getStreakFn(ctx, userID)
	}
	return domain.StreakState{}, nil
}

func (m *mockUserRepo) UpdateStreak(ctx context.Context, userID int64, apply func(domain.StreakState) domain.StreakState) (domain.StreakState, error) {
	if m.updateStreakFn != nil {
		return m.updateStreakFn(ctx, userID, apply)
	}
	return apply(domain.StreakState{}), nil
}

type mockTaskRepo struct {
	listFn      func(ctx context.Context, userID int64) ([]domain.Task, error)
	createFn    func(ctx context.Context, t domain.Task) (*domain.Task, error)
	updateFn    func(ctx context.Context, userID int64, id string, p domain.TaskPatch) (*domain.Task, error)
	deleteFn    func(ctx context.Context, userID int64, id string) error
	incrementFn func(ctx context.Context, userID int64, id string) error
}

func (m *mockTaskRepo) ListTasks(ctx context.Context, userID int64) ([]domain.Task, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockTaskRepo) CreateTask(ctx context.Context, t domain.Task) (*domain.Task, error) {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	return &t, nil
}

func (m *mockTaskRepo) UpdateTask(ctx context.Context, userID int64, id string, p domain.TaskPatch) (*domain.Task, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, p)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTaskRepo) DeleteTask(ctx context.Context, userID int64, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

func (m *mockTaskRepo) IncrementActualPoms(ctx context.Context, userID int64, id string) error {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, userID, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRecord_Validation(t *testing.T) {
	svc := app.NewSessionService(&mockSessionRepo{}, &mockUserRepo{}, &mockTaskRepo{})

	tests := []struct {
		name     string
		duration int
		mode     domain.Mode
	}{
		{"zero duration", 0, domain.ModeWork},
		{"negative duration", -60, domain.ModeWork},
		{"empty mode", 1500, ""},
		{"unknown mode", 1500, "nap"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), 1, tc.duration, tc.mode, "", time.Time{})
			if !errors.Is(err, app.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRecord_InsertFailureSurfaces(t *testing.T) {
	sessions := &mockSessionRepo{
		insertFn: func(_ context.Context, _ domain.Session) (*domain.Session, error) {
			return nil, errors.New("db down")
		},
	}
	streakCalled := false
	users := &mockUserRepo{
		updateStreakFn: func(_ context.Context, _ int64, apply func(domain.StreakState) domain.StreakState) (domain.StreakState, error) {
			streakCalled = true
			return apply(domain.StreakState{}), nil
		},
	}

	svc := app.NewSessionService(sessions, users, &mockTaskRepo{})
	_, err := svc.Record(context.Background(), 1, 1500, domain.ModeWork, "", time.Time{})
	if err == nil {
		t.Fatal("expected error when insert fails")
	}
	if streakCalled {
		t.Fatal("streak must not be touched when the insert fails")
	}
}

func TestRecord_QualifyingUpdatesStreakAndTask(t *testing.T) {
	completed := time.Date(2024, 1, 11, 2, 0, 0, 0, time.UTC)
	var gotState domain.StreakState
	users := &mockUserRepo{
		updateStreakFn: func(_ context.Context, userID int64, apply func(domain.StreakState) domain.StreakState) (domain.StreakState, error) {
			if userID != 1 {
				t.Fatalf("unexpected userID %d", userID)
			}
			gotState = apply(domain.StreakState{Current: 3, Best: 5, LastActiveDay: "2024-01-10"})
			return gotState, nil
		},
	}
	incremented := ""
	tasks := &mockTaskRepo{
		incrementFn: func(_ context.Context, _ int64, id string) error {
			incremented = id
			return nil
		},
	}

	svc := app.NewSessionService(&mockSessionRepo{}, users, tasks)
	sess, err := svc.Record(context.Background(), 1, 900, domain.ModeWork, "task-1", completed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected session to be assigned an id")
	}
	want := domain.StreakState{Current: 4, Best: 5, LastActiveDay: "2024-01-11"}
	if gotState != want {
		t.Errorf("streak = %+v; want %+v", gotState, want)
	}
	if incremented != "task-1" {
		t.Errorf("expected task-1 incremented, got %q", incremented)
	}
}

func TestRecord_BelowFloorSkipsSideEffects(t *testing.T) {
	streakCalled, taskCalled := false, false
	users := &mockUserRepo{
		updateStreakFn: func(_ context.Context, _ int64, apply func(domain.StreakState) domain.StreakState) (domain.StreakState, error) {
			streakCalled = true
			return apply(domain.StreakState{}), nil
		},
	}
	tasks := &mockTaskRepo{
		incrementFn: func(_ context.Context, _ int64, _ string) error {
			taskCalled = true
			return nil
		},
	}

	svc := app.NewSessionService(&mockSessionRepo{}, users, tasks)
	sess, err := svc.Record(context.Background(), 1, 300, domain.ModeWork, "task-1", time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess == nil {
		t.Fatal("session below the floor must still be persisted")
	}
	if streakCalled || taskCalled {
		t.Fatal("below-floor session must not trigger streak or task updates")
	}
}

func TestRecord_BreakModeSkipsSideEffects(t *testing.T) {
	streakCalled := false
	users := &mockUserRepo{
		updateStreakFn: func(_ context.Context, _ int64, apply func(domain.StreakState) domain.StreakState) (domain.StreakState, error) {
			streakCalled = true
			return apply(domain.StreakState{}), nil
		},
	}

	svc := app.NewSessionService(&mockSessionRepo{}, users, &mockTaskRepo{})
	if _, err := svc.Record(context.Background(), 1, 1500, domain.ModeShortBreak, "", time.Time{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streakCalled {
		t.Fatal("break session must not touch the streak")
	}
}

func TestRecord_StreakFailureRecovered(t *testing.T) {
	users := &mockUserRepo{
		updateStreakFn: func(_ context.Context, _ int64, _ func(domain.StreakState) domain.StreakState) (domain.StreakState, error) {
			return domain.StreakState{}, errors.New("lock timeout")
		},
	}
	taskCalled := false
	tasks := &mockTaskRepo{
		incrementFn: func(_ context.Context, _ int64, _ string) error {
			taskCalled = true
			return nil
		},
	}

	svc := app.NewSessionService(&mockSessionRepo{}, users, tasks)
	sess, err := svc.Record(context.Background(), 1, 1500, domain.ModeWork, "task-1", time.Time{})
	if err != nil {
		t.Fatalf("streak failure must not surface, got %v", err)
	}
	if sess == nil {
		t.Fatal("expected the created session back despite the streak failure")
	}
	if !taskCalled {
		t.Fatal("task increment must still be attempted after a streak failure")
	}
}

func TestRecord_TaskFailureRecovered(t *testing.T) {
	tasks := &mockTaskRepo{
		incrementFn: func(_ context.Context, _ int64, _ string) error {
			return domain.ErrNotFound
		},
	}

	svc := app.NewSessionService(&mockSessionRepo{}, &mockUserRepo{}, tasks)
	sess, err := svc.Record(context.Background(), 1, 1500, domain.ModeWork, "gone", time.Time{})
	if err != nil {
		t.Fatalf("task failure must not surface, got %v", err)
	}
	if sess == nil {
		t.Fatal("expected the created session back despite the task failure")
	}
}

func TestRecord_NoTaskNoIncrement(t *testing.T) {
	taskCalled := false
	tasks := &mockTaskRepo{
		incrementFn: func(_ context.Context, _ int64, _ string) error {
			taskCalled = true
			return nil
		},
	}

	svc := app.NewSessionService(&mockSessionRepo{}, &mockUserRepo{}, tasks)
	if _, err := svc.Record(context.Background(), 1, 1500, domain.ModeWork, "", time.Time{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskCalled {
		t.Fatal("no increment expected without a task reference")
	}
}

func TestRecord_DefaultsCompletedAt(t *testing.T) {
	var stored domain.Session
	sessions := &mockSessionRepo{
		insertFn: func(_ context.Context, s domain.Session) (*domain.Session, error) {
			stored = s
			return &s, nil
		},
	}

	svc := app.NewSessionService(sessions, &mockUserRepo{}, &mockTaskRepo{})
	before := time.Now()
	if _, err := svc.Record(context.Background(), 1, 1500, domain.ModeWork, "", time.Time{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.CompletedAt.Before(before) || stored.CompletedAt.After(time.Now()) {
		t.Errorf("completedAt not defaulted to now: %v", stored.CompletedAt)
	}
}

func TestRecord_SameDayIdempotentThroughService(t *testing.T) {
	state := domain.StreakState{Current: 3, Best: 5, LastActiveDay: "2024-01-10"}
	users := &mockUserRepo{
		updateStreakFn: func(_ context.Context, _ int64, apply func(domain.StreakState) domain.StreakState) (domain.StreakState, error) {
			state = apply(state)
			return state, nil
		},
	}

	svc := app.NewSessionService(&mockSessionRepo{}, users, &mockTaskRepo{})
	completed := time.Date(2024, 1, 11, 2, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := svc.Record(context.Background(), 1, 900, domain.ModeWork, "", completed.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	want := domain.StreakState{Current: 4, Best: 5, LastActiveDay: "2024-01-11"}
	if state != want {
		t.Errorf("after three same-day submissions streak = %+v; want %+v", state, want)
	}
}
