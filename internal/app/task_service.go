package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pomodoro/internal/domain"

	"github.com/google/uuid"
)

// TaskService encapsulates task-tracking use cases.
type TaskService struct {
	repo domain.TaskRepository
}

// NewTaskService creates a TaskService backed by the given repository.
func NewTaskService(repo domain.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// List returns all of the user's tasks, active first.
func (s *TaskService) List(ctx context.Context, userID int64) ([]domain.Task, error) {
	return s.repo.ListTasks(ctx, userID)
}

// Create validates and stores a new task.
func (s *TaskService) Create(ctx context.Context, userID int64, title, priority string, due *time.Time, estimatePoms int) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", ErrInvalidInput)
	}
	if priority == "" {
		priority = domain.TaskPriorityMed
	}
	if !validPriority(priority) {
		return nil, fmt.Errorf("%w: priority must be one of low, med, high", ErrInvalidInput)
	}
	if estimatePoms < 0 {
		estimatePoms = 0
	}

	now := time.Now()
	return s.repo.CreateTask(ctx, domain.Task{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        title,
		Status:       domain.TaskStatusTodo,
		Priority:     priority,
		Due:          due,
		EstimatePoms: estimatePoms,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Update applies a partial update to one of the user's tasks.
func (s *TaskService) Update(ctx context.Context, userID int64, id string, p domain.TaskPatch) (*domain.Task, error) {
	if p.Title != nil {
		trimmed := strings.TrimSpace(*p.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: title required", ErrInvalidInput)
		}
		p.Title = &trimmed
	}
	if p.Status != nil && !validStatus(*p.Status) {
		return nil, fmt.Errorf("%w: status must be one of todo, doing, done", ErrInvalidInput)
	}
	if p.Priority != nil && !validPriority(*p.Priority) {
		return nil, fmt.Errorf("%w: priority must be one of low, med, high", ErrInvalidInput)
	}
	if p.EstimatePoms != nil && *p.EstimatePoms < 0 {
		zero := 0
		p.EstimatePoms = &zero
	}
	if p.ActualPoms != nil && *p.ActualPoms < 0 {
		zero := 0
		p.ActualPoms = &zero
	}
	return s.repo.UpdateTask(ctx, userID, id, p)
}

// Delete removes one of the user's tasks.
func (s *TaskService) Delete(ctx context.Context, userID int64, id string) error {
	return s.repo.DeleteTask(ctx, userID, id)
}

func validStatus(s string) bool {
	return s == domain.TaskStatusTodo || s == domain.TaskStatusDoing || s == domain.TaskStatusDone
}

func validPriority(p string) bool {
	return p == domain.TaskPriorityLow || p == domain.TaskPriorityMed || p == domain.TaskPriorityHigh
}
