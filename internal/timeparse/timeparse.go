// Package timeparse parses the two kinds of time expressions accepted by the
// console's time inputs: absolute calendar strings such as "2024-01-02 08:00"
// and relative expressions anchored at "now" such as "now-1d/d".
package timeparse

import (
	"errors"
	"time"
)

var (
	// ErrNoMatch is returned when the input is not an expression of the
	// requested kind.
	ErrNoMatch = errors.New("time expression not recognised")
	// ErrOutOfRange is returned for well-formed absolute strings naming a
	// date or time that does not exist (month 13, February 30, hour 24).
	ErrOutOfRange = errors.New("date or time component out of range")
)

// Clock supplies the reference instant for relative expressions.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

// Parser bundles the location absolute strings are interpreted in and the
// clock relative expressions are resolved against. The zero value uses UTC
// and the system clock. Parser holds no mutable state and is safe to share.
type Parser struct {
	Location *time.Location
	Clock    Clock
}

// New returns a Parser for the given location and clock; nil arguments fall
// back to UTC and the system clock.
func New(loc *time.Location, clock Clock) Parser {
	return Parser{Location: loc, Clock: clock}
}

func (p Parser) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Now returns the parser's current instant in its location.
func (p Parser) Now() time.Time {
	if p.Clock == nil {
		return time.Now().In(p.location())
	}
	return p.Clock.Now().In(p.location())
}

// Absolute parses s as an absolute time in the parser's location.
func (p Parser) Absolute(s string) (Absolute, error) {
	return ParseAbsolute(s, p.location())
}

// Relative parses s as a relative expression.
func (p Parser) Relative(s string) (Relative, error) {
	return ParseRelative(s)
}

// Resolve interprets s as an absolute time and, failing that, as a relative
// expression. isStart selects the first (true) or last (false) second of the
// period the expression denotes.
func (p Parser) Resolve(s string, isStart bool) (time.Time, error) {
	if abs, err := p.Absolute(s); err == nil {
		return abs.Time(isStart), nil
	}
	rel, err := p.Relative(s)
	if err != nil {
		return time.Time{}, err
	}
	return rel.Time(p.Now(), isStart)
}
