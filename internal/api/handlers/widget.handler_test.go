package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/platformbuilds/mirador-console/internal/widgets"
	"github.com/platformbuilds/mirador-console/internal/widgets/honeycomb"
)

func (f *fixture) widgetRouter(lang language.Tag) http.Handler {
	registry := widgets.NewRegistry()
	honeycomb.Register(registry)
	isTemplate := func(id string) bool { return id == "100" }
	h := NewWidgetHandler(registry, f.bundle, testParser, isTemplate, f.log)

	r := f.router(superAdmin(), lang)
	r.POST("/api/v1/dashboard/widget/check", h.Check)
	r.POST("/api/v1/dashboard/widget/time-period/check", h.CheckTimePeriod)
	return r
}

type widgetError struct {
	Error MessageBox `json:"error"`
}

func TestWidgetCheck_Honeycomb(t *testing.T) {
	f := newFixture(t)
	r := f.widgetRouter(language.English)

	w := doJSON(r, http.MethodPost, "/api/v1/dashboard/widget/check", map[string]any{
		"type": honeycomb.WidgetType,
		"fields": map[string]any{
			"items":    []any{"CPU utilization"},
			"bg_color": "FF0000",
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[struct {
		Type   string                     `json:"type"`
		Fields []widgets.WidgetFieldValue `json:"fields"`
	}](t, w)
	assert.Equal(t, honeycomb.WidgetType, resp.Type)

	values := map[string]any{}
	for _, fv := range resp.Fields {
		values[fv.Name] = fv.Value
	}
	assert.Equal(t, "CPU utilization", values["items.0"])
	assert.Equal(t, "FF0000", values["bg_color"])
}

func TestWidgetCheck_Errors(t *testing.T) {
	f := newFixture(t)
	r := f.widgetRouter(language.English)

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{
			name:    "missing item pattern",
			body:    map[string]any{"type": honeycomb.WidgetType, "fields": map[string]any{}},
			message: `Invalid parameter "Item pattern": cannot be empty.`,
		},
		{
			name:    "bad color",
			body:    map[string]any{"type": honeycomb.WidgetType, "fields": map[string]any{"items": []any{"cpu"}, "bg_color": "red"}},
			message: `Invalid parameter "Background color": a hexadecimal color code (6 symbols) is expected.`,
		},
		{
			name:    "unknown widget",
			body:    map[string]any{"type": "clock", "fields": map[string]any{}},
			message: `unknown widget type: "clock"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/dashboard/widget/check", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[widgetError](t, w)
			assert.Equal(t, "Cannot save widget", resp.Error.Title)
			assert.Contains(t, resp.Error.Messages, tt.message)
		})
	}
}

func TestWidgetCheck_NonStrictAllowsEmptyPatterns(t *testing.T) {
	f := newFixture(t)
	r := f.widgetRouter(language.English)

	w := doJSON(r, http.MethodPost, "/api/v1/dashboard/widget/check", map[string]any{
		"type":   honeycomb.WidgetType,
		"strict": false,
		"fields": map[string]any{},
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWidgetCheck_TemplateDashboardByID(t *testing.T) {
	f := newFixture(t)
	r := f.widgetRouter(language.English)

	// Host groups are not part of the form on template dashboards.
	body := map[string]any{
		"type":   honeycomb.WidgetType,
		"fields": map[string]any{"items": []any{"cpu"}, "groupids": []any{"4"}},
	}
	w := doJSON(r, http.MethodPost, "/api/v1/dashboard/widget/check", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"groupids.0"`)

	body["dashboardid"] = "100"
	w = doJSON(r, http.MethodPost, "/api/v1/dashboard/widget/check", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"groupids`)
}

func TestWidgetCheck_Russian(t *testing.T) {
	f := newFixture(t)
	r := f.widgetRouter(language.Russian)

	w := doJSON(r, http.MethodPost, "/api/v1/dashboard/widget/check", map[string]any{
		"type": honeycomb.WidgetType, "fields": map[string]any{},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[widgetError](t, w)
	assert.Equal(t, f.bundle.T(language.Russian, msgCannotSaveWidget), resp.Error.Title)
	assert.NotEqual(t, "Cannot save widget", resp.Error.Title)
}

func TestTimePeriodCheck(t *testing.T) {
	f := newFixture(t)
	r := f.widgetRouter(language.English)

	day := func(d int) int64 { return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC).Unix() }

	w := doJSON(r, http.MethodPost, "/api/v1/dashboard/widget/time-period/check", map[string]any{
		"value":     map[string]any{"from": "2026-10-01", "to": "2026-10-02"},
		"date_only": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[TimePeriodCheckResponse](t, w)
	assert.Equal(t, int(widgets.DataSourceDefault), resp.DataSource)
	assert.Equal(t, day(1), resp.Period.From)
	assert.Equal(t, day(2), resp.Period.To)

	w = doJSON(r, http.MethodPost, "/api/v1/dashboard/widget/time-period/check", map[string]any{
		"value": map[string]any{"reference": widgets.ReferenceDashboard},
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[TimePeriodCheckResponse](t, w)
	assert.Equal(t, int(widgets.DataSourceDashboard), resp.DataSource)
	assert.Zero(t, resp.Period)
}

func TestTimePeriodCheck_Errors(t *testing.T) {
	f := newFixture(t)
	r := f.widgetRouter(language.English)

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{
			name:    "reversed",
			body:    map[string]any{"value": map[string]any{"from": "2026-10-05", "to": "2026-10-01"}},
			message: `Invalid parameter "Time period": a time is expected.`,
		},
		{
			name:    "time on date only",
			body:    map[string]any{"value": map[string]any{"from": "2026-10-01 10:00", "to": ""}, "date_only": true, "label": "Report period"},
			message: `Invalid parameter "Report period": a date is expected.`,
		},
		{
			name:    "required but empty",
			body:    map[string]any{"value": map[string]any{"from": "", "to": "now"}, "required": true},
			message: `Invalid parameter "Time period/from": cannot be empty.`,
		},
		{
			name:    "missing bound",
			body:    map[string]any{"value": map[string]any{"from": "now-1h"}},
			message: `Invalid parameter "Time period": the parameter "to" is missing.`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/dashboard/widget/time-period/check", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[widgetError](t, w)
			assert.Equal(t, tt.message, resp.Error.Title)
		})
	}
}
