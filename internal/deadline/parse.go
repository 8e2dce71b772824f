// Package deadline turns free-text deadline input into the normalized
// month/day representation stored on a task, and resolves that
// representation back to a concrete instant when reminders are computed.
package deadline

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/taskping/taskping/internal/model"
)

var ErrUnparseable = errors.New("deadline: unparseable input")

// JST is the fixed offset zone all wall-clock arithmetic runs in. The
// system has no DST concept.
var JST = time.FixedZone("JST", 9*60*60)

var (
	relativeRe = regexp.MustCompile(`^(today|今日|tomorrow|明日|day after tomorrow|明後日|(\d{1,3}) days? from now|(\d{1,3})日後)\s*(.*)$`)
	timeRe     = regexp.MustCompile(`^(\d{1,2})(?:時|:)?(?:(\d{1,2})分?)?$`)
	absoluteRe = regexp.MustCompile(`^(\d{1,2})月(\d{1,2})日(?:(\d{1,2})時(?:(\d{1,2})分)?)?$`)
)

// Parse recognizes two mutually exclusive grammars, relative first:
//
//	today / tomorrow / day after tomorrow / N days from now  (+ optional time)
//	M月D日 (+ optional H時 / H時M分)
//
// Relative dates are resolved against "today" in JST and normalized to the
// same month/day form as absolute input; the inferred year is discarded.
func Parse(text string, now time.Time) (model.Deadline, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.Deadline{}, ErrUnparseable
	}
	if d, err := parseRelative(trimmed, now); err == nil {
		return d, nil
	}
	return ParseAbsolute(trimmed)
}

// ParseAbsolute recognizes only the M月D日[H時[M分]] grammar. The storage
// codec uses it to decode rendered deadlines, which are always absolute.
func ParseAbsolute(text string) (model.Deadline, error) {
	m := absoluteRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return model.Deadline{}, ErrUnparseable
	}
	d := model.Deadline{
		Month: mustAtoi(m[1]),
		Day:   mustAtoi(m[2]),
	}
	if m[3] != "" {
		h := mustAtoi(m[3])
		d.Hour = &h
		if m[4] != "" {
			min := mustAtoi(m[4])
			d.Minute = &min
		}
	}
	if err := d.Validate(); err != nil {
		return model.Deadline{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return d, nil
}

func parseRelative(text string, now time.Time) (model.Deadline, error) {
	m := relativeRe.FindStringSubmatch(text)
	if m == nil {
		return model.Deadline{}, ErrUnparseable
	}

	days, err := relativeDays(m)
	if err != nil {
		return model.Deadline{}, err
	}

	local := now.In(JST)
	target := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, JST).AddDate(0, 0, days)
	d := model.Deadline{Month: int(target.Month()), Day: target.Day()}

	rest := strings.TrimSpace(m[4])
	if rest != "" {
		tm := timeRe.FindStringSubmatch(rest)
		if tm == nil {
			return model.Deadline{}, ErrUnparseable
		}
		h := mustAtoi(tm[1])
		d.Hour = &h
		if tm[2] != "" {
			min := mustAtoi(tm[2])
			d.Minute = &min
		}
	}
	if err := d.Validate(); err != nil {
		return model.Deadline{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return d, nil
}

func relativeDays(m []string) (int, error) {
	switch {
	case m[2] != "":
		return strconv.Atoi(m[2])
	case m[3] != "":
		return strconv.Atoi(m[3])
	}
	switch m[1] {
	case "today", "今日":
		return 0, nil
	case "tomorrow", "明日":
		return 1, nil
	case "day after tomorrow", "明後日":
		return 2, nil
	}
	return 0, ErrUnparseable
}

// Resolve converts a stored month/day deadline to a concrete instant in
// JST. The year is re-derived on every call: current year, unless the
// month/day has already passed this year (date comparison, not instant),
// in which case the date rolls into next year. A task whose original
// year's date passes therefore silently moves one year forward, since only
// month/day is persisted.
func Resolve(d model.Deadline, now time.Time) time.Time {
	local := now.In(JST)
	year := local.Year()
	if d.Month < int(local.Month()) || (d.Month == int(local.Month()) && d.Day < local.Day()) {
		year++
	}
	hour, minute := 0, 0
	if d.Hour != nil {
		hour = *d.Hour
	}
	if d.Minute != nil {
		minute = *d.Minute
	}
	return time.Date(year, time.Month(d.Month), d.Day, hour, minute, 0, 0, JST)
}

func mustAtoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
