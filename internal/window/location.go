package window

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseLocation resolves the timezone the window is evaluated in.
//
// Accepted forms:
//   - "" or "Local": the process local zone
//   - an IANA name such as "Europe/Berlin"
//   - a fixed UTC offset such as "+05:30", "-03:00" or "+2"
func ParseLocation(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)

	switch {
	case s == "" || strings.EqualFold(s, "local"):
		return time.Local, nil
	case strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-"):
		return parseOffset(s)
	}

	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", s, err)
	}

	return loc, nil
}

func parseOffset(s string) (*time.Location, error) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}

	hh, mm, hasMinutes := strings.Cut(s[1:], ":")

	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 14 {
		return nil, fmt.Errorf("invalid UTC offset %q", s)
	}

	minutes := 0
	if hasMinutes {
		minutes, err = strconv.Atoi(mm)
		if err != nil || minutes < 0 || minutes > 59 {
			return nil, fmt.Errorf("invalid UTC offset %q", s)
		}
	}

	offset := sign * (hours*3600 + minutes*60)
	return time.FixedZone("UTC"+s, offset), nil
}
