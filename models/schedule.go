package models

import (
	"bytes"
	"encoding/json"
)

// Schedule is the canonical storage form: per festival day, an ordered list
// of time ranges. Empty days are empty lists, never null.
type Schedule struct {
	Day1 []TimeRange `json:"day1"`
	Day2 []TimeRange `json:"day2"`
}

// CombinedSchedule is the display form: at most one merged range per day.
type CombinedSchedule struct {
	Day1 *TimeRange `json:"day1"`
	Day2 *TimeRange `json:"day2"`
}

// Combine collapses each day to its (min start, max end) range. An empty day
// yields a nil range. Collapsing is lossy: gaps between ranges disappear.
func (s Schedule) Combine() CombinedSchedule {
	return CombinedSchedule{
		Day1: CombineDay(s.Day1),
		Day2: CombineDay(s.Day2),
	}
}

// CombineDay merges a day's ranges into one covering range, nil when the
// day has none.
func CombineDay(day []TimeRange) *TimeRange {
	if len(day) == 0 {
		return nil
	}
	merged := day[0]
	for _, r := range day[1:] {
		if r.StartTime < merged.StartTime {
			merged.StartTime = r.StartTime
		}
		if r.EndTime > merged.EndTime {
			merged.EndTime = r.EndTime
		}
	}
	return &merged
}

// Uncombine converts the display form back to canonical storage form: an
// absent day becomes an empty list, a present day a single-element list.
func (c CombinedSchedule) Uncombine() Schedule {
	return Schedule{
		Day1: uncombineDay(c.Day1),
		Day2: uncombineDay(c.Day2),
	}
}

func uncombineDay(r *TimeRange) []TimeRange {
	if r == nil {
		return []TimeRange{}
	}
	return []TimeRange{*r}
}

// UnmarshalJSON accepts both the canonical form (day as a list of ranges)
// and the display form (day as a single range object or null), normalizing
// the latter through Uncombine.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var raw struct {
		Day1 json.RawMessage `json:"day1"`
		Day2 json.RawMessage `json:"day2"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	day1, err := unmarshalDay(raw.Day1)
	if err != nil {
		return err
	}
	day2, err := unmarshalDay(raw.Day2)
	if err != nil {
		return err
	}
	s.Day1 = day1
	s.Day2 = day2
	return nil
}

func unmarshalDay(raw json.RawMessage) ([]TimeRange, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []TimeRange{}, nil
	}
	if trimmed[0] == '[' {
		var ranges []TimeRange
		if err := json.Unmarshal(trimmed, &ranges); err != nil {
			return nil, err
		}
		if ranges == nil {
			ranges = []TimeRange{}
		}
		return ranges, nil
	}
	var r TimeRange
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return nil, err
	}
	return []TimeRange{r}, nil
}
