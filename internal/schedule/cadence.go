// Package schedule decides which reminder slots are due for a task at a
// given instant, and drives the send-then-record dispatch loop around that
// decision. DueSlots is pure; the caller owns sending and persisting.
package schedule

import (
	"fmt"
	"time"

	"github.com/taskping/taskping/internal/deadline"
	"github.com/taskping/taskping/internal/model"
)

const (
	// ToleranceMinutes is the slack around a nominal trigger instant. The
	// dispatch loop runs off an imprecise periodic trigger, so a boundary
	// hit counts anywhere inside this window.
	ToleranceMinutes = 12

	minutesPerDay = 24 * 60
	farModeDays   = 7
)

type Slot struct {
	Label   string
	Message string
}

// DueSlots returns the slots due for the task at now, excluding labels
// already present in the task's sent set. Labels are built from the local
// date, hour, or whole-day count, never from the raw instant, so the same
// wall-clock trigger always yields the same label across repeated or
// skewed poll invocations.
func DueSlots(task model.Task, now time.Time) []Slot {
	deadlineAt := deadline.Resolve(task.Deadline, now)
	remainingMin := deadlineAt.Sub(now).Minutes()
	if remainingMin < 0 {
		return nil
	}

	remainingDays := remainingMin / minutesPerDay
	daysLeft := int(remainingDays)
	local := Localize(now)

	candidates := make([]Slot, 0, 2)
	if s, ok := cadenceSlot(task.Priority, remainingDays, daysLeft, remainingMin, local); ok {
		candidates = append(candidates, s)
	}
	if inWindow(remainingMin, 30) {
		candidates = append(candidates, Slot{Label: "30m", Message: "30 minutes to go"})
	}

	due := candidates[:0]
	for _, s := range candidates {
		if !task.SlotSent(s.Label) {
			due = append(due, s)
		}
	}
	if len(due) == 0 {
		return nil
	}
	return due
}

// cadenceSlot evaluates the per-priority branch of the cadence table. At
// most one slot per branch can be due at any instant.
func cadenceSlot(priority int, remainingDays float64, daysLeft int, remainingMin float64, local LocalTime) (Slot, bool) {
	far := remainingDays >= farModeDays

	switch priority {
	case 1:
		if far {
			if local.Hour == 9 {
				return daySlot(local.Date, 9, daysLeft), true
			}
		} else if local.Hour == 8 || local.Hour == 12 || local.Hour == 18 {
			return daySlot(local.Date, local.Hour, daysLeft), true
		}
	case 2:
		if far {
			if local.Hour == 12 && daysLeft > 0 && daysLeft%3 == 0 {
				return countSlot(daysLeft, 12), true
			}
		} else if local.Hour == 10 || local.Hour == 22 {
			return daySlot(local.Date, local.Hour, daysLeft), true
		}
	case 3:
		if far {
			if local.Hour == 14 && daysLeft > 0 && daysLeft%5 == 0 {
				return countSlot(daysLeft, 14), true
			}
		} else if local.Hour == 17 {
			return daySlot(local.Date, 17, daysLeft), true
		}
	case 4:
		if inWindow(remainingMin, 60) {
			return Slot{Label: "1h", Message: "1 hour to go"}, true
		}
	}
	return Slot{}, false
}

// inWindow reports whether remaining falls in (boundary-W, boundary].
func inWindow(remaining float64, boundary float64) bool {
	return remaining > boundary-ToleranceMinutes && remaining <= boundary
}

func daySlot(date string, hour, daysLeft int) Slot {
	return Slot{
		Label:   fmt.Sprintf("%s-%d", date, hour),
		Message: daysLeftMessage(daysLeft),
	}
}

func countSlot(daysLeft, hour int) Slot {
	return Slot{
		Label:   fmt.Sprintf("%d-%d", daysLeft, hour),
		Message: daysLeftMessage(daysLeft),
	}
}

func daysLeftMessage(daysLeft int) string {
	switch daysLeft {
	case 0:
		return "due today"
	case 1:
		return "1 day to go"
	default:
		return fmt.Sprintf("%d days to go", daysLeft)
	}
}
