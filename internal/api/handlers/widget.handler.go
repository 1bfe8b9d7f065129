package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-console/internal/api/middleware"
	"github.com/platformbuilds/mirador-console/internal/i18n"
	"github.com/platformbuilds/mirador-console/internal/metrics"
	"github.com/platformbuilds/mirador-console/internal/tracing"
	"github.com/platformbuilds/mirador-console/internal/widgets"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

const (
	msgCannotSaveWidget = "Cannot save widget"
	msgTimePeriod       = "Time period"
)

// WidgetCheckRequest is the body of POST /api/v1/dashboard/widget/check.
type WidgetCheckRequest struct {
	Type              string         `json:"type" binding:"required"`
	DashboardID       string         `json:"dashboardid"`
	TemplateDashboard bool           `json:"template_dashboard"`
	Strict            *bool          `json:"strict"`
	Fields            map[string]any `json:"fields"`
}

// TimePeriodCheckRequest is the body of
// POST /api/v1/dashboard/widget/time-period/check.
type TimePeriodCheckRequest struct {
	Value    any    `json:"value"`
	DateOnly bool   `json:"date_only"`
	Required bool   `json:"required"`
	Label    string `json:"label"`
}

type TimePeriodCheckResponse struct {
	DataSource int                  `json:"data_source"`
	Value      any                  `json:"value"`
	Period     widgets.ParsedPeriod `json:"period"`
}

type WidgetHandler struct {
	registry   *widgets.Registry
	bundle     *i18n.Bundle
	parser     ParserFunc
	isTemplate func(dashboardID string) bool
	logger     logger.Logger
}

// NewWidgetHandler returns a handler validating forms of the widget types
// in registry. isTemplate tells template dashboards apart by ID and may be
// nil.
func NewWidgetHandler(registry *widgets.Registry, bundle *i18n.Bundle, parser ParserFunc, isTemplate func(string) bool, log logger.Logger) *WidgetHandler {
	if isTemplate == nil {
		isTemplate = func(string) bool { return false }
	}
	return &WidgetHandler{registry: registry, bundle: bundle, parser: parser, isTemplate: isTemplate, logger: log}
}

func (h *WidgetHandler) reject(c *gin.Context, msgs []string) {
	lang := middleware.Lang(c)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error": MessageBox{Title: h.bundle.T(lang, msgCannotSaveWidget), Messages: msgs},
	})
}

// Check validates the fields of a widget and returns them in the persisted
// form. Validation is strict unless the request says otherwise.
func (h *WidgetHandler) Check(c *gin.Context) {
	var req WidgetCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, []string{err.Error()})
		return
	}
	tr := h.bundle.Translator(middleware.Lang(c))

	opts := widgets.FormOptions{
		TemplateDashboard: req.TemplateDashboard || h.isTemplate(req.DashboardID),
		Parser:            h.parser(),
	}
	form, err := h.registry.New(req.Type, req.Fields, opts)
	if err != nil {
		if errors.Is(err, widgets.ErrUnknownWidget) {
			metrics.RecordWidgetValidation("unknown", false)
			h.reject(c, []string{err.Error()})
			return
		}
		h.logger.Error("Widget form build failed", "type", req.Type, "error", err)
		_ = c.Error(err)
		return
	}

	strict := req.Strict == nil || *req.Strict
	tracer := tracing.GetGlobalTracer()
	_, span := tracer.StartWidgetValidationSpan(c.Request.Context(), req.Type, strict)
	errs := form.Validate(strict)
	tracer.RecordValidation(span, len(errs))
	span.End()
	if len(errs) > 0 {
		metrics.RecordWidgetValidation(req.Type, false)
		h.logger.Debug("Widget rejected", "type", req.Type, "errors", len(errs))
		h.reject(c, widgets.Messages(errs, tr))
		return
	}

	metrics.RecordWidgetValidation(req.Type, true)
	c.JSON(http.StatusOK, gin.H{"type": req.Type, "fields": form.ToAPI()})
}

// CheckTimePeriod validates a single time period value.
func (h *WidgetHandler) CheckTimePeriod(c *gin.Context) {
	lang := middleware.Lang(c)
	var req TimePeriodCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fatal(c, err.Error())
		return
	}

	label := req.Label
	if label == "" {
		label = h.bundle.T(lang, msgTimePeriod)
	}
	field := widgets.NewTimePeriod("time_period", label, req.DateOnly)
	field.SetFullName(label)
	field.SetParser(h.parser())
	if req.Required {
		field.SetFlags(widgets.FlagNotEmpty)
	}
	if req.Value != nil {
		_ = field.SetValue(req.Value)
	}

	tracer := tracing.GetGlobalTracer()
	_, span := tracer.StartTimePeriodSpan(c.Request.Context(), field.DataSource().String(), req.DateOnly)
	errs := field.Validate(true)
	tracer.RecordValidation(span, len(errs))
	span.End()
	if len(errs) > 0 {
		metrics.RecordTimePeriodValidation(field.DataSource().String(), false)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": MessageBox{Title: errs[0].Text(h.bundle.Translator(lang))},
		})
		return
	}

	ds := field.DataSource()
	metrics.RecordTimePeriodValidation(ds.String(), true)
	c.JSON(http.StatusOK, TimePeriodCheckResponse{
		DataSource: int(ds),
		Value:      field.Value(),
		Period:     field.Period(),
	})
}
