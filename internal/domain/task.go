package domain

import (
	"context"
	"time"
)

// Task statuses and priorities.
const (
	TaskStatusTodo  = "todo"
	TaskStatusDoing = "doing"
	TaskStatusDone  = "done"

	TaskPriorityLow  = "low"
	TaskPriorityMed  = "med"
	TaskPriorityHigh = "high"
)

// Task is a user's tracked piece of work. ActualPoms counts finished work
// blocks attributed to it.
type Task struct {
	ID           string     `json:"id"`
	UserID       int64      `json:"userId"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	Due          *time.Time `json:"due"`
	EstimatePoms int        `json:"estimatePoms"`
	ActualPoms   int        `json:"actualPoms"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TaskPatch is a partial update. Nil fields are left untouched. DueSet
// distinguishes "clear the due date" from "not provided".
type TaskPatch struct {
	Title        *string
	Status       *string
	Priority     *string
	Due          *time.Time
	DueSet       bool
	EstimatePoms *int
	ActualPoms   *int
}

// TaskRepository is the port for task persistence. All operations are
// scoped to a user so one user cannot touch another's tasks.
type TaskRepository interface {
	ListTasks(ctx context.Context, userID int64) ([]Task, error)
	CreateTask(ctx context.Context, t Task) (*Task, error)
	UpdateTask(ctx context.Context, userID int64, id string, p TaskPatch) (*Task, error)
	DeleteTask(ctx context.Context, userID int64, id string) error
	IncrementActualPoms(ctx context.Context, userID int64, id string) error
}
