package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var absolutePattern = regexp.MustCompile(
	`^(\d{4})(?:-(\d{2})(?:-(\d{2})(?:\s+(\d{2})(?::(\d{2})(?::(\d{2}))?)?)?)?)?$`,
)

// Absolute is a parsed calendar string. Components that were not written
// are left at their zero value and Precision records the finest unit that
// was.
type Absolute struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Precision            Unit
	loc                  *time.Location
}

// ParseAbsolute accepts "YYYY", "YYYY-MM", "YYYY-MM-DD", "YYYY-MM-DD hh",
// "YYYY-MM-DD hh:mm" and "YYYY-MM-DD hh:mm:ss". The whole string must match.
func ParseAbsolute(s string, loc *time.Location) (Absolute, error) {
	m := absolutePattern.FindStringSubmatch(s)
	if m == nil {
		return Absolute{}, fmt.Errorf("%w: %q is not an absolute time", ErrNoMatch, s)
	}
	if loc == nil {
		loc = time.UTC
	}

	a := Absolute{Month: 1, Day: 1, Precision: UnitYear, loc: loc}
	a.Year, _ = strconv.Atoi(m[1])

	steps := []struct {
		raw  string
		dst  *int
		unit Unit
	}{
		{m[2], &a.Month, UnitMonth},
		{m[3], &a.Day, UnitDay},
		{m[4], &a.Hour, UnitHour},
		{m[5], &a.Minute, UnitMinute},
		{m[6], &a.Second, UnitSecond},
	}
	for _, st := range steps {
		if st.raw == "" {
			break
		}
		*st.dst, _ = strconv.Atoi(st.raw)
		a.Precision = st.unit
	}

	if err := a.check(); err != nil {
		return Absolute{}, fmt.Errorf("%w: %q", err, s)
	}
	return a, nil
}

func (a Absolute) check() error {
	if a.Month < 1 || a.Month > 12 {
		return ErrOutOfRange
	}
	if a.Day < 1 || a.Day > daysIn(a.Year, time.Month(a.Month)) {
		return ErrOutOfRange
	}
	if a.Hour > 23 || a.Minute > 59 || a.Second > 59 {
		return ErrOutOfRange
	}
	return nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Time returns the first second of the written period when isStart is set
// and its last second otherwise: "2024-02" gives 2024-02-01 00:00:00 or
// 2024-02-29 23:59:59.
func (a Absolute) Time(isStart bool) time.Time {
	loc := a.loc
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(a.Year, time.Month(a.Month), a.Day, a.Hour, a.Minute, a.Second, 0, loc)
	if isStart {
		return start
	}
	return a.Precision.add(start, 1).Add(-time.Second)
}

// IsMidnight reports whether the start of the written period falls exactly
// on 00:00:00.
func (a Absolute) IsMidnight() bool {
	return a.Hour == 0 && a.Minute == 0 && a.Second == 0
}
