package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend/gtime"
)

// TokenKind distinguishes offsets ("-1d") from roundings ("/d").
type TokenKind int

const (
	TokenOffset TokenKind = iota
	TokenRounding
)

// Token is one step of a relative expression after the leading "now".
type Token struct {
	Kind TokenKind
	// Sign is +1 or -1 for offsets and 0 for roundings.
	Sign  int
	Value int
	// Suffix is the unit letter as written; offsets may omit it.
	Suffix string
}

// Unit returns the token's unit; an offset written without a suffix counts
// seconds.
func (t Token) Unit() Unit {
	if t.Suffix == "" {
		return UnitSecond
	}
	return Unit(t.Suffix[0])
}

func (t Token) String() string {
	if t.Kind == TokenRounding {
		return "/" + t.Suffix
	}
	sign := "+"
	if t.Sign < 0 {
		sign = "-"
	}
	return sign + strconv.Itoa(t.Value) + t.Suffix
}

// Relative is a parsed "now[tokens...]" expression.
type Relative struct {
	Tokens []Token
}

const relativeAnchor = "now"

// ParseRelative accepts "now" followed by any number of offsets
// ([+-]<digits>[smhdwMy]) and roundings (/[smhdwMy]), e.g. "now",
// "now-1h", "now/d", "now-7d/d", "now/w+1d".
func ParseRelative(s string) (Relative, error) {
	if !strings.HasPrefix(s, relativeAnchor) {
		return Relative{}, fmt.Errorf("%w: %q is not a relative time", ErrNoMatch, s)
	}

	var tokens []Token
	rest := s[len(relativeAnchor):]
	for rest != "" {
		tok, n, err := nextToken(rest)
		if err != nil {
			return Relative{}, fmt.Errorf("%w: %q at %q", err, s, rest)
		}
		tokens = append(tokens, tok)
		rest = rest[n:]
	}
	return Relative{Tokens: tokens}, nil
}

func nextToken(s string) (Token, int, error) {
	switch s[0] {
	case '/':
		if len(s) < 2 {
			return Token{}, 0, ErrNoMatch
		}
		if _, ok := parseUnit(s[1]); !ok {
			return Token{}, 0, ErrNoMatch
		}
		return Token{Kind: TokenRounding, Suffix: s[1:2]}, 2, nil

	case '+', '-':
		sign := 1
		if s[0] == '-' {
			sign = -1
		}
		i := 1
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 1 {
			return Token{}, 0, ErrNoMatch
		}
		digits := s[1:i]
		tok := Token{Kind: TokenOffset, Sign: sign}
		if i < len(s) {
			if _, ok := parseUnit(s[i]); ok {
				tok.Suffix = s[i : i+1]
				i++
			}
		}
		value, err := strconv.ParseInt(digits, 10, 64)
		if err != nil || value > tok.Unit().maxOffset() {
			return Token{}, 0, fmt.Errorf("%w: offset %s%s", ErrOutOfRange, digits, tok.Unit())
		}
		tok.Value = int(value)
		return tok, i, nil
	}
	return Token{}, 0, ErrNoMatch
}

// HasSubDayUnit reports whether any token uses seconds, minutes or hours.
func (r Relative) HasSubDayUnit() bool {
	for _, t := range r.Tokens {
		if t.Unit().SubDay() {
			return true
		}
	}
	return false
}

// Time resolves the expression against now. Roundings move to the first
// second of the unit when isStart is set and to its last second otherwise,
// so "now/d" spans today whether used as the start or the end of a range.
// Weeks start on Monday.
func (r Relative) Time(now time.Time, isStart bool) (time.Time, error) {
	tr := gtime.TimeRange{From: r.expression(), To: r.expression(), Now: now}
	opts := []gtime.TimeRangeOption{gtime.WithLocation(now.Location()), gtime.WithWeekstart(time.Monday)}

	var (
		t   time.Time
		err error
	)
	if isStart {
		t, err = tr.ParseFrom(opts...)
	} else {
		t, err = tr.ParseTo(opts...)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrNoMatch, r.String(), err)
	}
	return t.In(now.Location()).Truncate(time.Second), nil
}

// expression is the date math form of r: offsets always carry their unit.
func (r Relative) expression() string {
	var b strings.Builder
	b.WriteString(relativeAnchor)
	for _, t := range r.Tokens {
		if t.Kind == TokenOffset && t.Suffix == "" {
			t.Suffix = UnitSecond.String()
		}
		b.WriteString(t.String())
	}
	return b.String()
}

func (r Relative) String() string {
	var b strings.Builder
	b.WriteString(relativeAnchor)
	for _, t := range r.Tokens {
		b.WriteString(t.String())
	}
	return b.String()
}
