package schedule

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in storage.
const DateLayout = "2006-01-02"

const minutesPerDay = 24 * 60

// WallClock is a time of day with minute precision, stored as minutes since midnight.
// Its string form is zero-padded "HH:MM", so lexical and chronological order agree.
type WallClock int

func NewWallClock(hour, minute int) (WallClock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("wall clock %02d:%02d out of range", hour, minute)
	}
	return WallClock(hour*60 + minute), nil
}

// ParseWallClock accepts exactly "HH:MM".
func ParseWallClock(s string) (WallClock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return NewWallClock(t.Hour(), t.Minute())
}

func MustWallClock(s string) WallClock {
	w, err := ParseWallClock(s)
	if err != nil {
		panic(err)
	}
	return w
}

// ClockOf truncates t to the minute in its own location.
func ClockOf(t time.Time) WallClock {
	return WallClock(t.Hour()*60 + t.Minute())
}

func (w WallClock) Minutes() int { return int(w) }

func (w WallClock) Hour() int { return int(w) / 60 }

func (w WallClock) Minute() int { return int(w) % 60 }

// Add may run past midnight; callers compare the result against an end bound.
func (w WallClock) Add(d time.Duration) WallClock {
	return w + WallClock(d/time.Minute)
}

func (w WallClock) Before(o WallClock) bool { return w < o }

func (w WallClock) After(o WallClock) bool { return w > o }

func (w WallClock) Valid() bool { return w >= 0 && w < minutesPerDay }

// On places w on the calendar day of day, in day's location.
func (w WallClock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), w.Hour(), w.Minute(), 0, 0, day.Location())
}

func (w WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour(), w.Minute())
}

func (w WallClock) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

func (w *WallClock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseWallClock(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

func (w WallClock) Value() (driver.Value, error) {
	return w.String(), nil
}

func (w *WallClock) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into WallClock", src)
	}
	// postgres TIME columns come back as HH:MM:SS
	if len(s) == 8 {
		s = s[:5]
	}
	parsed, err := ParseWallClock(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// ParseDate parses "YYYY-MM-DD" as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDay compares calendar dates, reading b in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
