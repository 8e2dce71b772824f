package schedule

import (
	"time"

	"github.com/taskping/taskping/internal/deadline"
)

// Clock abstracts "now" so cadence decisions are testable with injected
// instants.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// LocalTime is the projection of an instant into the fixed offset zone:
// the local calendar date plus the hour of day. All cadence logic is
// expressed in terms of this projection.
type LocalTime struct {
	Date string
	Hour int
}

func Localize(t time.Time) LocalTime {
	local := t.In(deadline.JST)
	return LocalTime{Date: local.Format("2006-01-02"), Hour: local.Hour()}
}
