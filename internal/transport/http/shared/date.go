package shared

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// ParseDeadline reads a due or target date. A bare calendar day means the
// last second of that day in UTC, so work finished on the day is on time.
func ParseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty deadline")
	}
	if at, err := time.Parse(time.RFC3339, value); err == nil {
		return at.UTC(), nil
	}
	day, err := time.Parse(dayLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse deadline %q: %w", value, err)
	}
	return day.Add(24*time.Hour - time.Second), nil
}
