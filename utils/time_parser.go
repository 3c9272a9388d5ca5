package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// ParseDuration extends time.ParseDuration to support a leading day count,
// as in "2d" or "1d12h". A bare number is read as minutes.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 || n > math.MaxInt64/int64(time.Minute) {
			return 0, fmt.Errorf("duration out of range: %s", s)
		}
		return time.Duration(n) * time.Minute, nil
	}

	var days time.Duration
	if idx := strings.Index(s, "d"); idx >= 0 {
		daysStr := s[:idx]
		n, err := strconv.ParseInt(daysStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid day value: %s", daysStr)
		}
		if n < 0 || n > math.MaxInt64/int64(day) {
			return 0, fmt.Errorf("duration out of range: %sd", daysStr)
		}
		days = time.Duration(n) * day
		s = s[idx+1:]
		if s == "" {
			return days, nil
		}
	}

	rest, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if rest < 0 || rest > math.MaxInt64-days {
		return 0, fmt.Errorf("duration out of range")
	}
	return days + rest, nil
}

// FormatDuration renders d for humans, rounding to whole seconds.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Second {
		return "less than a second"
	}
	days := d / day
	d -= days * day
	if days > 0 {
		if d == 0 {
			return fmt.Sprintf("%dd", days)
		}
		return fmt.Sprintf("%dd%s", days, d)
	}
	return d.String()
}
