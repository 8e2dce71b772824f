package schedule

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/taskping/taskping/internal/deadline"
	"github.com/taskping/taskping/internal/model"
)

// Polling a task on any cadence, with each emitted slot recorded as sent,
// must never produce the same slot label twice.
func TestRepeatedPollsNeverDuplicateSlots(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		priority := rapid.IntRange(1, 4).Draw(t, "priority")
		dayOffset := rapid.IntRange(0, 12).Draw(t, "dayOffset")
		hour := rapid.IntRange(0, 23).Draw(t, "hour")
		minute := rapid.IntRange(0, 59).Draw(t, "minute")
		stepMinutes := rapid.IntRange(2, 17).Draw(t, "stepMinutes")

		start := time.Date(2026, 5, 1, 0, 0, 0, 0, deadline.JST)
		due := start.AddDate(0, 0, dayOffset)
		tk := model.Task{
			ID:       "t1",
			Name:     "n",
			Priority: priority,
			Deadline: model.Deadline{
				Month: int(due.Month()), Day: due.Day(),
				Hour: &hour, Minute: &minute,
			},
		}

		seen := make(map[string]bool)
		end := start.AddDate(0, 0, 14)
		for now := start; now.Before(end); now = now.Add(time.Duration(stepMinutes) * time.Minute) {
			for _, slot := range DueSlots(tk, now) {
				if seen[slot.Label] {
					t.Fatalf("slot %q emitted twice (priority %d, due %s)", slot.Label, priority, tk.Deadline)
				}
				seen[slot.Label] = true
				tk.MarkSlotSent(slot.Label)
			}
		}
	})
}

// A slot label is a function of the wall-clock slot, not of the poll
// instant: any two polls inside the same local hour of a daily slot see
// the same label.
func TestSkewedPollsInsideSlotSeeSameLabel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		minuteA := rapid.IntRange(0, 59).Draw(t, "minuteA")
		minuteB := rapid.IntRange(0, 59).Draw(t, "minuteB")

		hour := 23
		d := model.Deadline{Month: 5, Day: 20, Hour: &hour}
		tk := model.Task{ID: "t1", Name: "n", Priority: 1, Deadline: d}

		day := time.Date(2026, 5, 10, 9, 0, 0, 0, deadline.JST)
		first := DueSlots(tk, day.Add(time.Duration(minuteA)*time.Minute))
		second := DueSlots(tk, day.Add(time.Duration(minuteB)*time.Minute))
		if len(first) != 1 || len(second) != 1 {
			t.Fatalf("expected one due slot per poll, got %d and %d", len(first), len(second))
		}
		if first[0].Label != second[0].Label {
			t.Fatalf("labels differ inside one slot: %q vs %q", first[0].Label, second[0].Label)
		}
	})
}
