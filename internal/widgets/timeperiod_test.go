package widgets

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/mirador-console/internal/timeparse"
)

// Wednesday.
var refNow = time.Date(2024, 3, 13, 14, 25, 36, 0, time.UTC)

var testParser = timeparse.New(time.UTC, timeparse.FixedClock{T: refNow})

func ts(year int, month time.Month, day, hour, min, sec int) int64 {
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC).Unix()
}

func TestValidateTimePeriod_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		value    DefaultPeriod
		dateOnly bool
		want     ParsedPeriod
		wantErr  error
		wantMsg  string
	}{
		{
			name:     "midnight bounds in date-only mode",
			value:    DefaultPeriod{From: "2024-01-01 00:00:00", To: "2024-01-02 00:00:00"},
			dateOnly: true,
			want:     ParsedPeriod{From: ts(2024, 1, 1, 0, 0, 0), To: ts(2024, 1, 2, 0, 0, 0)},
		},
		{
			name:     "time of day in date-only mode",
			value:    DefaultPeriod{From: "2024-01-01 08:00:00", To: "2024-01-02 00:00:00"},
			dateOnly: true,
			wantErr:  ErrTimeGranularity,
			wantMsg:  `Invalid parameter "Time period": a date is expected.`,
		},
		{
			name:  "relative range",
			value: DefaultPeriod{From: "now-7d", To: "now"},
			want:  ParsedPeriod{From: ts(2024, 3, 6, 14, 25, 36), To: ts(2024, 3, 13, 14, 25, 36)},
		},
		{
			name:     "day rounding in date-only mode",
			value:    DefaultPeriod{From: "now-7d/d", To: "now"},
			dateOnly: true,
			want:     ParsedPeriod{From: ts(2024, 3, 6, 0, 0, 0), To: ts(2024, 3, 13, 14, 25, 36)},
		},
		{
			name:     "hour offset in date-only mode",
			value:    DefaultPeriod{From: "now-1h", To: "now"},
			dateOnly: true,
			wantErr:  ErrTimeGranularity,
			wantMsg:  `Invalid parameter "Time period": a date is expected.`,
		},
		{
			name:    "start after end",
			value:   DefaultPeriod{From: "2024-05-01", To: "2024-01-01"},
			wantErr: ErrTimeRangeOrder,
			wantMsg: `Invalid parameter "Time period": a time is expected.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ValidateTimePeriod(tt.value, TimePeriodOptions{DateOnly: tt.dateOnly, Name: "Time period"}, testParser)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DataSourceDefault, res.DataSource)
			assert.Equal(t, tt.value, res.Value)
			assert.Equal(t, tt.want, res.Period)
		})
	}
}

func TestValidateTimePeriod_Bounds(t *testing.T) {
	tests := []struct {
		name  string
		value DefaultPeriod
		want  ParsedPeriod
	}{
		{"empty bounds", DefaultPeriod{}, ParsedPeriod{}},
		{"open end", DefaultPeriod{From: "now-1d"}, ParsedPeriod{From: ts(2024, 3, 12, 14, 25, 36)}},
		{"today", DefaultPeriod{From: "now/d", To: "now/d"}, ParsedPeriod{From: ts(2024, 3, 13, 0, 0, 0), To: ts(2024, 3, 13, 23, 59, 59)}},
		{"this week", DefaultPeriod{From: "now/w", To: "now/w"}, ParsedPeriod{From: ts(2024, 3, 11, 0, 0, 0), To: ts(2024, 3, 17, 23, 59, 59)}},
		{"absolute month start", DefaultPeriod{From: "2024-02", To: "2024-03"}, ParsedPeriod{From: ts(2024, 2, 1, 0, 0, 0), To: ts(2024, 3, 1, 0, 0, 0)}},
		{"mixed", DefaultPeriod{From: "2024-03-01 10:00", To: "now"}, ParsedPeriod{From: ts(2024, 3, 1, 10, 0, 0), To: ts(2024, 3, 13, 14, 25, 36)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ValidateTimePeriod(tt.value, TimePeriodOptions{Name: "Time period"}, testParser)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Period)
		})
	}
}

func TestValidateTimePeriod_ParseErrors(t *testing.T) {
	for _, in := range []string{"yesterday", "2024-13-01", "2024-02-30", "now-1x", "2024/01/01"} {
		_, err := ValidateTimePeriod(DefaultPeriod{From: in}, TimePeriodOptions{Name: "Time period"}, testParser)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrTimeParse, in)
		assert.Equal(t, `Invalid parameter "Time period": a time is expected.`, err.Error())
	}
}

func TestValidateTimePeriod_LargeOffsets(t *testing.T) {
	opts := TimePeriodOptions{Name: "Time period"}

	res, err := ValidateTimePeriod(DefaultPeriod{From: "now-2000000h", To: "now"}, opts, testParser)
	require.NoError(t, err)
	assert.Less(t, res.Period.From, res.Period.To)

	for _, in := range []string{"now-3000000h", "now-10000000000s", "now-10001y"} {
		_, err := ValidateTimePeriod(DefaultPeriod{From: in, To: "now"}, opts, testParser)
		assert.ErrorIs(t, err, ErrTimeParse, in)
		assert.NotErrorIs(t, err, ErrTimeRangeOrder, in)
	}
}

func TestValidateTimePeriod_DateOnlyMatrix(t *testing.T) {
	accepted := []string{"2024-01-01", "2024-01", "2024", "2024-01-01 00:00", "now", "now/d", "now-1w/w", "now-1M/M", "now-1y/y", "now+2d"}
	rejected := []string{"2024-01-01 00:00:01", "2024-01-01 12", "now-1m", "now-30s", "now/h", "now-1", "now-1d+1h"}

	opts := TimePeriodOptions{DateOnly: true, Name: "Date"}
	for _, in := range accepted {
		_, err := ValidateTimePeriod(DefaultPeriod{From: in}, opts, testParser)
		assert.NoError(t, err, in)
	}
	for _, in := range rejected {
		_, err := ValidateTimePeriod(DefaultPeriod{From: in}, opts, testParser)
		assert.ErrorIs(t, err, ErrTimeGranularity, in)
	}
}

func TestValidateTimePeriod_RangeOrder(t *testing.T) {
	pairs := [][2]string{
		{"now", "now-1h"},
		{"2024-01-01 10:00", "2024-01-01 10:00"},
		{"now", "2024-01-01"},
	}
	for _, p := range pairs {
		_, err := ValidateTimePeriod(DefaultPeriod{From: p[0], To: p[1]}, TimePeriodOptions{Name: "Period"}, testParser)
		assert.ErrorIs(t, err, ErrTimeRangeOrder, p[0]+".."+p[1])
	}
}

func TestValidateTimePeriod_Structural(t *testing.T) {
	long := strings.Repeat("1", 256)

	_, err := ValidateTimePeriod(DefaultPeriod{From: long, To: "now"}, TimePeriodOptions{Name: "Period"}, testParser)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)
	assert.Equal(t, `Invalid parameter "Period/from": value is too long.`, err.Error())

	_, err = ValidateTimePeriod(DefaultPeriod{From: "now-1h"}, TimePeriodOptions{Required: true, Name: "Period"}, testParser)
	assert.ErrorIs(t, err, ErrStructural)
	assert.Equal(t, `Invalid parameter "Period/to": cannot be empty.`, err.Error())

	_, err = ValidateTimePeriod(PeriodReference{}, TimePeriodOptions{Required: true, Name: "Period"}, testParser)
	assert.ErrorIs(t, err, ErrStructural)
}

func TestValidateTimePeriod_References(t *testing.T) {
	res, err := ValidateTimePeriod(PeriodReference{Reference: ReferenceDashboard}, TimePeriodOptions{DateOnly: true, Name: "Period"}, testParser)
	require.NoError(t, err)
	assert.Equal(t, DataSourceDashboard, res.DataSource)
	assert.Equal(t, ParsedPeriod{}, res.Period)

	res, err = ValidateTimePeriod(PeriodReference{Reference: "ABCDE._timeperiod"}, TimePeriodOptions{Name: "Period"}, testParser)
	require.NoError(t, err)
	assert.Equal(t, DataSourceWidget, res.DataSource)

	res, err = ValidateTimePeriod(nil, TimePeriodOptions{Name: "Period"}, testParser)
	require.NoError(t, err)
	assert.Equal(t, DataSourceDefault, res.DataSource)
	assert.Equal(t, DefaultPeriod{}, res.Value)
}

func TestValidateTimePeriod_Idempotent(t *testing.T) {
	opts := TimePeriodOptions{DateOnly: true, Name: "Period"}
	first, err := ValidateTimePeriod(DefaultPeriod{From: "now-30d/d", To: "2024-12-31"}, opts, testParser)
	require.NoError(t, err)

	second, err := ValidateTimePeriod(first.Value, opts, testParser)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateTimePeriod_Location(t *testing.T) {
	riga := time.FixedZone("EET", 2*3600)
	p := timeparse.New(riga, timeparse.FixedClock{T: refNow})

	res, err := ValidateTimePeriod(DefaultPeriod{From: "2024-01-01", To: "now/d"}, TimePeriodOptions{Name: "Period"}, p)
	require.NoError(t, err)
	assert.Equal(t, ts(2023, 12, 31, 22, 0, 0), res.Period.From)
	assert.Equal(t, ts(2024, 3, 13, 21, 59, 59), res.Period.To)
}

func TestTimePeriodField_SetValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    TimePeriodValue
		wantDS  DataSource
		wantMsg string
	}{
		{"bounds", map[string]any{"from": "now-1h", "to": "now"}, DefaultPeriod{From: "now-1h", To: "now"}, DataSourceDefault, ""},
		{"data source dropped", map[string]any{"data_source": 0, "from": "", "to": ""}, DefaultPeriod{}, DataSourceDefault, ""},
		{"dashboard", map[string]any{"data_source": "2", "reference": "DASHBOARD"}, PeriodReference{Reference: "DASHBOARD"}, DataSourceDashboard, ""},
		{"widget", map[string]any{"reference": "ABCDE._timeperiod"}, PeriodReference{Reference: "ABCDE._timeperiod"}, DataSourceWidget, ""},
		{"typed value", PeriodReference{Reference: "DASHBOARD"}, PeriodReference{Reference: "DASHBOARD"}, DataSourceDashboard, ""},
		{"missing to", map[string]any{"from": "now"}, DefaultPeriod{}, DataSourceDefault, `Invalid parameter "Time period": the parameter "to" is missing.`},
		{"number", map[string]any{"from": 1, "to": "now"}, DefaultPeriod{}, DataSourceDefault, `Invalid parameter "Time period/from": a character string is expected.`},
		{"bad data source", map[string]any{"data_source": 7, "from": "", "to": ""}, DefaultPeriod{}, DataSourceDefault, `Invalid parameter "Time period/data_source": value must be one of 0, 1, 2.`},
		{"extra key", map[string]any{"from": "", "to": "", "zoom": "1"}, DefaultPeriod{}, DataSourceDefault, `Invalid parameter "Time period": unexpected parameter "zoom".`},
		{"not an object", "now", DefaultPeriod{}, DataSourceDefault, `Invalid parameter "Time period": an array is expected.`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewTimePeriod("time_period", "Time period", false)
			f.SetParser(testParser)
			err := f.SetValue(tt.raw)
			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrStructural)
				errs := f.Validate(false)
				require.Len(t, errs, 1)
				assert.Equal(t, tt.wantMsg, errs[0].Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Value())
			assert.Equal(t, tt.wantDS, f.DataSource())
			assert.Empty(t, f.Validate(true))
		})
	}
}

func TestTimePeriodField_RequiredOnlyWhenStrict(t *testing.T) {
	f := NewTimePeriod("time_period", "Time period", false)
	f.SetFlags(FlagNotEmpty)

	assert.Empty(t, f.Validate(false))

	errs := f.Validate(true)
	require.Len(t, errs, 1)
	assert.Equal(t, `Invalid parameter "Time period/from": cannot be empty.`, errs[0].Error())
}

func TestTimePeriodField_ToAPI(t *testing.T) {
	f := NewTimePeriod("time_period", "Time period", false)
	assert.Empty(t, f.ToAPI())

	require.NoError(t, f.SetValue(map[string]any{"from": "now-1h", "to": "now"}))
	assert.Equal(t, []WidgetFieldValue{
		{Type: FieldTypeStr, Name: "time_period[from]", Value: "now-1h"},
		{Type: FieldTypeStr, Name: "time_period[to]", Value: "now"},
	}, f.ToAPI())

	require.NoError(t, f.SetValue(map[string]any{"reference": "DASHBOARD"}))
	assert.Equal(t, []WidgetFieldValue{
		{Type: FieldTypeStr, Name: "time_period[reference]", Value: "DASHBOARD"},
	}, f.ToAPI())
}

func TestTimePeriodField_PeriodAfterValidate(t *testing.T) {
	f := NewTimePeriod("time_period", "Time period", true)
	f.SetParser(testParser)
	require.NoError(t, f.SetValue(DefaultPeriod{From: "2024-01-01", To: "2024-01-02"}))
	require.Empty(t, f.Validate(false))
	assert.Equal(t, ParsedPeriod{From: ts(2024, 1, 1, 0, 0, 0), To: ts(2024, 1, 2, 0, 0, 0)}, f.Period())
}
