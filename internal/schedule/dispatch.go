package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskping/taskping/internal/model"
)

// TaskStore is the slice of the repository the dispatch loop needs.
type TaskStore interface {
	GetTasks(ctx context.Context, userID string) ([]model.Task, error)
	UpdateTask(ctx context.Context, userID, taskID string, mutate func(*model.Task)) error
}

// Notifier delivers an unsolicited reminder message to a user.
type Notifier interface {
	Push(ctx context.Context, userID, text string) error
}

// Dispatcher walks the allow-listed user's tasks on each periodic trigger,
// sends every due slot, and records each slot as sent only after the send
// succeeded. There is no transaction spanning send and record: a crash or
// store failure between the two re-sends that slot on the next trigger
// (at-least-once, deduplicated by slot label otherwise).
type Dispatcher struct {
	Store    TaskStore
	Notifier Notifier
	Clock    Clock
	Logger   *slog.Logger
	UserID   string
}

// Run processes one trigger invocation. now is computed once so every task
// in the batch sees consistent slot labels. Send failures are logged and
// skipped per slot; they never abort the rest of the batch.
func (d *Dispatcher) Run(ctx context.Context) error {
	now := d.clock().Now()
	tasks, err := d.Store.GetTasks(ctx, d.UserID)
	if err != nil {
		return fmt.Errorf("fetch tasks: %w", err)
	}

	for _, task := range tasks {
		for _, slot := range DueSlots(task, now) {
			text := fmt.Sprintf("reminder: %s (%s) %s", task.Name, task.Deadline, slot.Message)
			if err := d.Notifier.Push(ctx, d.UserID, text); err != nil {
				d.logger().Error("reminder send failed",
					"task_id", task.ID, "slot", slot.Label, "error", err)
				continue
			}
			if err := d.Store.UpdateTask(ctx, d.UserID, task.ID, func(t *model.Task) {
				t.MarkSlotSent(slot.Label)
			}); err != nil {
				d.logger().Error("mark slot sent failed",
					"task_id", task.ID, "slot", slot.Label, "error", err)
			}
		}
	}
	return nil
}

func (d *Dispatcher) clock() Clock {
	if d.Clock == nil {
		return SystemClock{}
	}
	return d.Clock
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}
