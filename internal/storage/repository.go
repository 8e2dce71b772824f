package storage

import (
	"context"
	"errors"

	"github.com/taskping/taskping/internal/model"
)

var (
	ErrNotFound        = errors.New("storage: not found")
	ErrIndexOutOfRange = errors.New("storage: task index out of range")
)

// Repository is the per-user keyed store for tasks and conversation state.
// Task lists come back ordered by priority with insertion order preserved
// for ties. Malformed stored payloads decode to safe defaults: idle state,
// and malformed task rows are dropped rather than surfaced.
type Repository interface {
	GetState(ctx context.Context, userID string) (model.ConversationState, error)
	SetState(ctx context.Context, userID string, state model.ConversationState) error

	GetTasks(ctx context.Context, userID string) ([]model.Task, error)
	AddTask(ctx context.Context, userID string, task model.Task) error
	RemoveTaskByIndex(ctx context.Context, userID string, index int) error
	UpdateTask(ctx context.Context, userID, taskID string, mutate func(*model.Task)) error
}
