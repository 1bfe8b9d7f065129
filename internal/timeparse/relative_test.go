package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var refNow = time.Date(2024, 3, 13, 14, 25, 36, 500, time.UTC)

func TestParseRelative_Tokens(t *testing.T) {
	r, err := ParseRelative("now-7d/d+1h-30")
	require.NoError(t, err)
	require.Len(t, r.Tokens, 4)

	assert.Equal(t, Token{Kind: TokenOffset, Sign: -1, Value: 7, Suffix: "d"}, r.Tokens[0])
	assert.Equal(t, Token{Kind: TokenRounding, Suffix: "d"}, r.Tokens[1])
	assert.Equal(t, Token{Kind: TokenOffset, Sign: 1, Value: 1, Suffix: "h"}, r.Tokens[2])
	assert.Equal(t, UnitSecond, r.Tokens[3].Unit())
	assert.Equal(t, "now-7d/d+1h-30", r.String())
}

func TestParseRelative_Rejects(t *testing.T) {
	for _, in := range []string{"", "Now", "now-", "now/", "now/x", "now-1x", "now+d", "now 1d", "yesterday"} {
		_, err := ParseRelative(in)
		assert.ErrorIs(t, err, ErrNoMatch, in)
	}
}

func TestParseRelative_OffsetLimits(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"now-2000000h", true},
		{"now-3000000h", false},
		{"now-9000000000s", true},
		{"now-10000000000s", false},
		{"now-10000000000", false},
		{"now-200000000m", false},
		{"now-10000y", true},
		{"now-10001y", false},
		{"now+120001M", false},
		{"now-3660001d", false},
		{"now-99999999999999999999d", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseRelative(tt.in)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrOutOfRange)
			}
		})
	}
}

func TestRelative_LargeOffsetsStayInThePast(t *testing.T) {
	for _, in := range []string{"now-2000000h", "now-9000000000s", "now-10000y/y"} {
		r, err := ParseRelative(in)
		require.NoError(t, err, in)
		got, err := r.Time(refNow, true)
		require.NoError(t, err, in)
		assert.True(t, got.Before(refNow.AddDate(-200, 0, 0)), "%s resolved to %s", in, got)
	}
}

func TestRelative_Time(t *testing.T) {
	tests := []struct {
		in        string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"now", time.Date(2024, 3, 13, 14, 25, 36, 0, time.UTC), time.Date(2024, 3, 13, 14, 25, 36, 0, time.UTC)},
		{"now-1h", time.Date(2024, 3, 13, 13, 25, 36, 0, time.UTC), time.Date(2024, 3, 13, 13, 25, 36, 0, time.UTC)},
		{"now/d", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 13, 23, 59, 59, 0, time.UTC)},
		{"now-1d/d", time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 12, 23, 59, 59, 0, time.UTC)},
		{"now/w", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 17, 23, 59, 59, 0, time.UTC)},
		{"now/M", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)},
		{"now-1y/y", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"now-2M", time.Date(2024, 1, 13, 14, 25, 36, 0, time.UTC), time.Date(2024, 1, 13, 14, 25, 36, 0, time.UTC)},
		{"now-90", time.Date(2024, 3, 13, 14, 24, 6, 0, time.UTC), time.Date(2024, 3, 13, 14, 24, 6, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := ParseRelative(tt.in)
			require.NoError(t, err)
			start, err := r.Time(refNow, true)
			require.NoError(t, err)
			end, err := r.Time(refNow, false)
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(start), "start: got %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end: got %s", end)
		})
	}
}

func TestRelative_WeekStartsOnMonday(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 10, 0, 0, 0, time.UTC)
	r, err := ParseRelative("now/w")
	require.NoError(t, err)
	got, err := r.Time(sunday, true)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC).Equal(got), "got %s", got)
}

func TestRelative_TimeInLocation(t *testing.T) {
	riga, err := time.LoadLocation("Europe/Riga")
	require.NoError(t, err)
	r, err := ParseRelative("now/d")
	require.NoError(t, err)

	got, err := r.Time(refNow.In(riga), true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, riga).Unix(), got.Unix())
	assert.Equal(t, riga, got.Location())
}

func TestRelative_HasSubDayUnit(t *testing.T) {
	cases := map[string]bool{
		"now":      false,
		"now-7d/d": false,
		"now-1w/w": false,
		"now-1M/M": false,
		"now-1y":   false,
		"now-1h":   true,
		"now-30m":  true,
		"now-10s":  true,
		"now-10":   true,
		"now/d+1h": true,
		"now-1d/h": true,
	}
	for in, want := range cases {
		r, err := ParseRelative(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, r.HasSubDayUnit(), in)
	}
}

func TestParser_Resolve(t *testing.T) {
	p := New(time.UTC, FixedClock{T: refNow})

	got, err := p.Resolve("2024-01-01", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = p.Resolve("now/d", false)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 3, 13, 23, 59, 59, 0, time.UTC).Equal(got), "got %s", got)

	_, err = p.Resolve("now-3000000h", true)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = p.Resolve("tomorrow", true)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestParser_ZeroValue(t *testing.T) {
	var p Parser
	assert.Equal(t, time.UTC, p.Now().Location())
	a, err := p.Absolute("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1704067200), a.Time(true).Unix())
}
