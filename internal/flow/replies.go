package flow

import (
	"fmt"
	"strings"

	"github.com/taskping/taskping/internal/model"
)

const (
	promptName     = "what's the task?"
	promptPriority = "priority? (1-4, 1 is most urgent)"
	promptDeadline = "when is it due? (e.g. tomorrow 9:30 or 4月12日9時)"
	replyTaskAdded = "understood, reminders will follow by priority"
	replyNoTasks   = "no tasks"

	cancelAdd      = "add cancelled"
	cancelComplete = "completion cancelled"
	cancelDelete   = "deletion cancelled"
)

func cancelReply(kind model.StateKind) string {
	switch kind {
	case model.StateCompleting:
		return cancelComplete
	case model.StateDeleting:
		return cancelDelete
	default:
		return cancelAdd
	}
}

// formatTaskList renders the priority-sorted list the way every flow shows
// it: 1-based index, priority tag, name, deadline.
func formatTaskList(tasks []model.Task) string {
	lines := make([]string, 0, len(tasks))
	for i, t := range tasks {
		lines = append(lines, fmt.Sprintf("%d. [P%d] %s (%s)", i+1, t.Priority, t.Name, t.Deadline))
	}
	return strings.Join(lines, "\n")
}

func promptIndex(tasks []model.Task, verb string) string {
	return fmt.Sprintf("which one to %s? send its number\n%s", verb, formatTaskList(tasks))
}
