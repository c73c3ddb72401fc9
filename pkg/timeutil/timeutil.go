package timeutil

import (
	"fmt"
	"time"
)

// Wire formats for local dates and wall-clock datetimes.
const (
	DateLayout      = "2006-01-02"
	DateTimeLayout  = "2006-01-02 15:04"
	ClockLayout     = "15:04"
	ClockLayoutFull = "15:04:05"
)

var (
	ErrInvalidTimezone = fmt.Errorf("invalid timezone")
	ErrInvalidFormat   = fmt.Errorf("invalid datetime format")
)

// LoadLocation resolves an IANA timezone name.
func LoadLocation(tzName string) (*time.Location, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tzName)
	}
	return loc, nil
}

// LocalDayBoundsUTC returns the [startUTC, endUTC) window covering the
// given local calendar day: local midnight through the next local
// midnight, both expressed as UTC instants.
func LocalDayBoundsUTC(day time.Time, tzName string) (time.Time, time.Time, error) {
	loc, err := LoadLocation(tzName)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	y, m, d := day.Date()
	startLocal := time.Date(y, m, d, 0, 0, 0, 0, loc)
	endLocal := startLocal.AddDate(0, 0, 1)

	return startLocal.UTC(), endLocal.UTC(), nil
}

// CombineLocalDateTime builds a timezone-aware instant from a calendar
// day and a wall-clock time of day.
func CombineLocalDateTime(day time.Time, timeOfDay time.Time, tzName string) (time.Time, error) {
	loc, err := LoadLocation(tzName)
	if err != nil {
		return time.Time{}, err
	}

	y, m, d := day.Date()
	hh, mm, ss := timeOfDay.Clock()
	return time.Date(y, m, d, hh, mm, ss, 0, loc), nil
}

// ToLocal converts a UTC instant to the named timezone.
func ToLocal(instantUTC time.Time, tzName string) (time.Time, error) {
	loc, err := LoadLocation(tzName)
	if err != nil {
		return time.Time{}, err
	}
	return instantUTC.In(loc), nil
}

// ToUTC converts a local instant back to UTC.
func ToUTC(localInstant time.Time, tzName string) (time.Time, error) {
	if _, err := LoadLocation(tzName); err != nil {
		return time.Time{}, err
	}
	return localInstant.UTC(), nil
}

// ParseLocalDate parses a "YYYY-MM-DD" literal.
func ParseLocalDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return d, nil
}

// ParseLocalDateTime parses a "YYYY-MM-DD HH:MM" literal as wall-clock
// time in the named timezone.
func ParseLocalDateTime(s string, tzName string) (time.Time, error) {
	loc, err := LoadLocation(tzName)
	if err != nil {
		return time.Time{}, err
	}

	dt, err := time.ParseInLocation(DateTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return dt, nil
}

// ParseClock parses "HH:MM" or "HH:MM:SS" time-of-day literals, the
// formats schedule rows are stored in.
func ParseClock(s string) (time.Time, error) {
	if t, err := time.Parse(ClockLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(ClockLayoutFull, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return t, nil
}

// DayOfWeek returns the day-of-week index for a calendar day under the
// fixed 0=Sunday..6=Saturday convention.
func DayOfWeek(day time.Time) int {
	return int(day.Weekday())
}
