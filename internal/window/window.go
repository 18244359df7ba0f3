package window

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidClock = errors.New("invalid clock time")

// Clock is a time of day on a 24-hour clock.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an "HH:MM" string. Single digit hours are accepted.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Clock{}, fmt.Errorf("%w: %q must be HH:MM", ErrInvalidClock, s)
	}

	if !digits(hh) || len(hh) > 2 {
		return Clock{}, fmt.Errorf("%w: %q has a malformed hour", ErrInvalidClock, s)
	}
	if !digits(mm) || len(mm) != 2 {
		return Clock{}, fmt.Errorf("%w: %q has a malformed minute", ErrInvalidClock, s)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q has a malformed hour", ErrInvalidClock, s)
	}

	minute, err := strconv.Atoi(mm)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q has a malformed minute", ErrInvalidClock, s)
	}

	c := Clock{Hour: hour, Minute: minute}
	if !c.Valid() {
		return Clock{}, fmt.Errorf("%w: %q is out of range", ErrInvalidClock, s)
	}

	return c, nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Valid reports whether c is a real time of day.
func (c Clock) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

func (c Clock) minuteOfDay() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Window is an inclusive daily time range.
type Window struct {
	Start Clock
	End   Clock
}

// New builds a window from two "HH:MM" strings.
func New(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, fmt.Errorf("window start: %w", err)
	}

	e, err := ParseClock(end)
	if err != nil {
		return Window{}, fmt.Errorf("window end: %w", err)
	}

	return Window{Start: s, End: e}, nil
}

// Wraps reports whether the window crosses midnight.
func (w Window) Wraps() bool {
	return w.Start.minuteOfDay() > w.End.minuteOfDay()
}

// Contains reports whether t, read in its own location, falls inside the window.
// Both bounds are inclusive at minute granularity.
func (w Window) Contains(t time.Time) bool {
	now := t.Hour()*60 + t.Minute()
	start, end := w.Start.minuteOfDay(), w.End.minuteOfDay()

	if w.Wraps() {
		return now >= start || now <= end
	}

	return now >= start && now <= end
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}
