package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidPriority = errors.New("model: invalid task priority")

const (
	PriorityMin = 1
	PriorityMax = 4
)

type Task struct {
	ID        string
	Name      string
	Priority  int
	Deadline  Deadline
	SentSlots []string
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("model: task name is required")
	}
	if t.Priority < PriorityMin || t.Priority > PriorityMax {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, t.Priority)
	}
	return t.Deadline.Validate()
}

// SlotSent reports whether the given slot label has already been notified.
func (t Task) SlotSent(label string) bool {
	for _, s := range t.SentSlots {
		if s == label {
			return true
		}
	}
	return false
}

// MarkSlotSent appends the label to the sent set. Appending a label that is
// already present is a no-op so the set stays duplicate-free.
func (t *Task) MarkSlotSent(label string) {
	if t.SlotSent(label) {
		return
	}
	t.SentSlots = append(t.SentSlots, label)
}

// SortTasks orders tasks by ascending priority. The sort is stable so tasks
// with equal priority keep their insertion order.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority < tasks[j].Priority
	})
}
