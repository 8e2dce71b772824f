package model

import (
	"errors"
	"fmt"
)

var ErrInvalidDeadline = errors.New("model: invalid deadline")

// Deadline is a normalized point-in-time descriptor. Only month and day are
// stored; the effective year is re-derived against the current instant every
// time the deadline is resolved. Hour and minute are optional, and a minute
// is only meaningful together with an hour.
type Deadline struct {
	Month  int
	Day    int
	Hour   *int
	Minute *int
}

func (d Deadline) Validate() error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidDeadline, d.Month)
	}
	// Day-in-month is deliberately not checked against the calendar;
	// 2月31日 is accepted.
	if d.Day < 1 || d.Day > 31 {
		return fmt.Errorf("%w: day %d", ErrInvalidDeadline, d.Day)
	}
	if d.Hour != nil && (*d.Hour < 0 || *d.Hour > 23) {
		return fmt.Errorf("%w: hour %d", ErrInvalidDeadline, *d.Hour)
	}
	if d.Minute != nil {
		if d.Hour == nil {
			return fmt.Errorf("%w: minute without hour", ErrInvalidDeadline)
		}
		if *d.Minute < 0 || *d.Minute > 59 {
			return fmt.Errorf("%w: minute %d", ErrInvalidDeadline, *d.Minute)
		}
	}
	return nil
}

// String renders the deadline in the absolute input grammar, so a rendered
// deadline always parses back without rejection.
func (d Deadline) String() string {
	out := fmt.Sprintf("%d月%d日", d.Month, d.Day)
	if d.Hour != nil {
		out += fmt.Sprintf("%d時", *d.Hour)
		if d.Minute != nil {
			out += fmt.Sprintf("%d分", *d.Minute)
		}
	}
	return out
}
