package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Time is a minute-of-day value in [0, 1440). It travels as "HH:mm" on the
// wire.
type Time uint16

// NewTime builds a Time from an hour and minute pair.
func NewTime(hour, minute int) (Time, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %02d:%02d", hour, minute)
	}
	return Time(hour*60 + minute), nil
}

func (t Time) Hour() int   { return int(t) / 60 }
func (t Time) Minute() int { return int(t) % 60 }

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return fmt.Errorf("invalid time format %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("invalid time format %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("invalid time format %q", s)
	}
	parsed, err := NewTime(hour, minute)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeRange is one contiguous slot within a festival day.
type TimeRange struct {
	StartTime Time `json:"start_time"`
	EndTime   Time `json:"end_time"`
}
