package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/taskping/taskping/internal/deadline"
	"github.com/taskping/taskping/internal/model"
)

func intPtr(v int) *int { return &v }

func jst(year int, month time.Month, day, hour, minute, sec int) time.Time {
	return time.Date(year, month, day, hour, minute, sec, 0, deadline.JST)
}

func task(priority int, d model.Deadline, sent ...string) model.Task {
	return model.Task{ID: "t1", Name: "buy milk", Priority: priority, Deadline: d, SentSlots: sent}
}

func labels(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Label)
	}
	return out
}

func assertLabels(t *testing.T, got []Slot, want ...string) {
	t.Helper()
	gotLabels := labels(got)
	if len(gotLabels) != len(want) {
		t.Fatalf("slots = %v, want %v", gotLabels, want)
	}
	for i := range want {
		if gotLabels[i] != want[i] {
			t.Fatalf("slots = %v, want %v", gotLabels, want)
		}
	}
}

func TestPriority1FarModeDailyAtNine(t *testing.T) {
	d := model.Deadline{Month: 4, Day: 25, Hour: intPtr(12)}

	assertLabels(t, DueSlots(task(1, d), jst(2026, 4, 10, 9, 3, 0)), "2026-04-10-9")
	// Same hour, later poll: identical label, still emitted until marked sent.
	assertLabels(t, DueSlots(task(1, d), jst(2026, 4, 10, 9, 58, 30)), "2026-04-10-9")
	// Marked sent: nothing more that day.
	assertLabels(t, DueSlots(task(1, d, "2026-04-10-9"), jst(2026, 4, 10, 9, 58, 0)))
	// Other hours are silent in far mode.
	assertLabels(t, DueSlots(task(1, d), jst(2026, 4, 10, 8, 0, 0)))
	assertLabels(t, DueSlots(task(1, d), jst(2026, 4, 10, 12, 0, 0)))
}

func TestPriority1NearModeThreePerDay(t *testing.T) {
	d := model.Deadline{Month: 4, Day: 12, Hour: intPtr(23)}

	for _, hour := range []int{8, 12, 18} {
		got := DueSlots(task(1, d), jst(2026, 4, 10, hour, 5, 0))
		assertLabels(t, got, fmt.Sprintf("2026-04-10-%d", hour))
	}
	assertLabels(t, DueSlots(task(1, d), jst(2026, 4, 10, 9, 0, 0)))
}

func TestPriority2FarModeMultiplesOfThree(t *testing.T) {
	d := model.Deadline{Month: 4, Day: 19, Hour: intPtr(12)}

	// 9 whole days out at local noon: fires.
	assertLabels(t, DueSlots(task(2, d), jst(2026, 4, 10, 12, 0, 0)), "9-12")
	// 8 whole days out: not a multiple of 3.
	assertLabels(t, DueSlots(task(2, d), jst(2026, 4, 11, 12, 0, 0)))
	// Multiple of 3 but wrong hour: silent.
	late := model.Deadline{Month: 4, Day: 19, Hour: intPtr(23)}
	assertLabels(t, DueSlots(task(2, late), jst(2026, 4, 10, 13, 0, 0)))
}

func TestPriority2NearModeTwicePerDay(t *testing.T) {
	d := model.Deadline{Month: 4, Day: 13, Hour: intPtr(23)}

	assertLabels(t, DueSlots(task(2, d), jst(2026, 4, 10, 10, 2, 0)), "2026-04-10-10")
	assertLabels(t, DueSlots(task(2, d), jst(2026, 4, 10, 22, 30, 0)), "2026-04-10-22")
	assertLabels(t, DueSlots(task(2, d), jst(2026, 4, 10, 12, 0, 0)))
}

func TestPriority3Cadence(t *testing.T) {
	far := model.Deadline{Month: 4, Day: 20, Hour: intPtr(14)}
	// 10 whole days out at 14: multiple of 5.
	assertLabels(t, DueSlots(task(3, far), jst(2026, 4, 10, 14, 0, 0)), "10-14")
	// 9 whole days out: not a multiple of 5.
	assertLabels(t, DueSlots(task(3, far), jst(2026, 4, 11, 14, 0, 0)))

	near := model.Deadline{Month: 4, Day: 12, Hour: intPtr(23)}
	assertLabels(t, DueSlots(task(3, near), jst(2026, 4, 10, 17, 11, 0)), "2026-04-10-17")
	assertLabels(t, DueSlots(task(3, near), jst(2026, 4, 10, 9, 0, 0)))
}

func TestPriority4HourWindow(t *testing.T) {
	d := model.Deadline{Month: 4, Day: 12, Hour: intPtr(12), Minute: intPtr(0)}

	// Exactly 60 minutes remaining: included.
	assertLabels(t, DueSlots(task(4, d), jst(2026, 4, 12, 11, 0, 0)), "1h")
	// Inside the window.
	assertLabels(t, DueSlots(task(4, d), jst(2026, 4, 12, 11, 10, 0)), "1h")
	// 60 + W minutes remaining: excluded.
	assertLabels(t, DueSlots(task(4, d), jst(2026, 4, 12, 10, 48, 0)))
	// Window floor is exclusive: exactly 48 minutes remaining.
	assertLabels(t, DueSlots(task(4, d), jst(2026, 4, 12, 11, 12, 0)))
}

func TestUniversalThirtyMinuteSlot(t *testing.T) {
	d := model.Deadline{Month: 4, Day: 12, Hour: intPtr(12), Minute: intPtr(0)}

	for priority := 1; priority <= 4; priority++ {
		assertLabels(t, DueSlots(task(priority, d), jst(2026, 4, 12, 11, 30, 0)), "30m")
		assertLabels(t, DueSlots(task(priority, d, "30m"), jst(2026, 4, 12, 11, 30, 0)))
	}
	// Exactly at the floor the window is exclusive: 18 minutes remaining.
	assertLabels(t, DueSlots(task(4, d), jst(2026, 4, 12, 11, 42, 0)))
}

func TestNearDailyAndThirtyMinuteCanCoincide(t *testing.T) {
	d := model.Deadline{Month: 4, Day: 10, Hour: intPtr(17), Minute: intPtr(25)}
	got := DueSlots(task(3, d), jst(2026, 4, 10, 17, 0, 0))
	assertLabels(t, got, "2026-04-10-17", "30m")
}

func TestExpiredTaskIsSkipped(t *testing.T) {
	// Same local date with the time already passed resolves to this year,
	// leaving remaining minutes negative.
	d := model.Deadline{Month: 4, Day: 10, Hour: intPtr(8)}
	assertLabels(t, DueSlots(task(1, d), jst(2026, 4, 10, 9, 0, 0)))
	assertLabels(t, DueSlots(task(4, d), jst(2026, 4, 10, 9, 0, 0)))
}

func TestPassedDateRollsIntoFarMode(t *testing.T) {
	// 4月9日 seen on 4月10日 resolves to next year: far mode.
	d := model.Deadline{Month: 4, Day: 9, Hour: intPtr(12)}
	assertLabels(t, DueSlots(task(1, d), jst(2026, 4, 10, 9, 0, 0)), "2026-04-10-9")
	assertLabels(t, DueSlots(task(1, d), jst(2026, 4, 10, 8, 0, 0)))
}
