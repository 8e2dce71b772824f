package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/taskping/taskping/internal/model"
)

// MemoryRepository keeps everything in process memory. It backs tests and
// runs where no database path is configured.
type MemoryRepository struct {
	mu     sync.Mutex
	states map[string]model.ConversationState
	tasks  map[string][]model.Task
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		states: make(map[string]model.ConversationState),
		tasks:  make(map[string][]model.Task),
	}
}

func (r *MemoryRepository) GetState(_ context.Context, userID string) (model.ConversationState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[userID]
	if !ok {
		return model.Idle(), nil
	}
	return state, nil
}

func (r *MemoryRepository) SetState(_ context.Context, userID string, state model.ConversationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[userID] = state
	return nil
}

func (r *MemoryRepository) GetTasks(_ context.Context, userID string) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Task, len(r.tasks[userID]))
	copy(out, r.tasks[userID])
	return out, nil
}

func (r *MemoryRepository) AddTask(_ context.Context, userID string, task model.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := append(r.tasks[userID], task)
	model.SortTasks(list)
	r.tasks[userID] = list
	return nil
}

func (r *MemoryRepository) RemoveTaskByIndex(_ context.Context, userID string, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.tasks[userID]
	if index < 1 || index > len(list) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(list))
	}
	r.tasks[userID] = append(list[:index-1], list[index:]...)
	return nil
}

func (r *MemoryRepository) UpdateTask(_ context.Context, userID, taskID string, mutate func(*model.Task)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.tasks[userID]
	for i := range list {
		if list[i].ID == taskID {
			task := list[i]
			mutate(&task)
			if err := task.Validate(); err != nil {
				return err
			}
			list[i] = task
			model.SortTasks(list)
			return nil
		}
	}
	return ErrNotFound
}
