package timeparse

import (
	"math"
	"time"
)

// Unit is a calendar granularity as written in relative expressions.
type Unit byte

const (
	UnitSecond Unit = 's'
	UnitMinute Unit = 'm'
	UnitHour   Unit = 'h'
	UnitDay    Unit = 'd'
	UnitWeek   Unit = 'w'
	UnitMonth  Unit = 'M'
	UnitYear   Unit = 'y'
)

func parseUnit(b byte) (Unit, bool) {
	switch u := Unit(b); u {
	case UnitSecond, UnitMinute, UnitHour, UnitDay, UnitWeek, UnitMonth, UnitYear:
		return u, true
	}
	return 0, false
}

func (u Unit) String() string { return string(rune(u)) }

// SubDay reports whether the unit is finer than a calendar day.
func (u Unit) SubDay() bool {
	return u == UnitSecond || u == UnitMinute || u == UnitHour
}

// Offset limits. Sub-day offsets must fit a time.Duration; calendar offsets
// are kept within ten thousand years.
const maxOffsetYears int64 = 10000

// maxOffset is the largest offset accepted for the unit.
func (u Unit) maxOffset() int64 {
	switch u {
	case UnitMinute:
		return math.MaxInt64 / int64(time.Minute)
	case UnitHour:
		return math.MaxInt64 / int64(time.Hour)
	case UnitDay:
		return maxOffsetYears * 366
	case UnitWeek:
		return maxOffsetYears * 366 / 7
	case UnitMonth:
		return maxOffsetYears * 12
	case UnitYear:
		return maxOffsetYears
	default:
		return math.MaxInt64 / int64(time.Second)
	}
}

// add moves t by n units using calendar arithmetic for days and above.
func (u Unit) add(t time.Time, n int) time.Time {
	switch u {
	case UnitMinute:
		return t.Add(time.Duration(n) * time.Minute)
	case UnitHour:
		return t.Add(time.Duration(n) * time.Hour)
	case UnitDay:
		return t.AddDate(0, 0, n)
	case UnitWeek:
		return t.AddDate(0, 0, 7*n)
	case UnitMonth:
		return t.AddDate(0, n, 0)
	case UnitYear:
		return t.AddDate(n, 0, 0)
	default:
		return t.Add(time.Duration(n) * time.Second)
	}
}
