package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-console/internal/api/middleware"
	"github.com/platformbuilds/mirador-console/internal/i18n"
	"github.com/platformbuilds/mirador-console/internal/metrics"
	"github.com/platformbuilds/mirador-console/internal/models"
	"github.com/platformbuilds/mirador-console/internal/repo"
	"github.com/platformbuilds/mirador-console/internal/services"
	"github.com/platformbuilds/mirador-console/internal/tracing"
	"github.com/platformbuilds/mirador-console/internal/widgets"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

// Mass actions of the event correlation list.
const (
	CorrelationDelete  = "delete"
	CorrelationEnable  = "enable"
	CorrelationDisable = "disable"
)

// singular and plural forms of the texts of one action.
type correlationTexts struct {
	confirm, success, failure [2]string
}

var correlationActionTexts = map[string]correlationTexts{
	CorrelationDelete: {
		confirm: [2]string{"Delete selected event correlation?", "Delete selected event correlations?"},
		success: [2]string{"Event correlation deleted", "Event correlations deleted"},
		failure: [2]string{"Cannot delete event correlation", "Cannot delete event correlations"},
	},
	CorrelationEnable: {
		confirm: [2]string{"Enable selected event correlation?", "Enable selected event correlations?"},
		success: [2]string{"Event correlation enabled", "Event correlations enabled"},
		failure: [2]string{"Cannot enable event correlation", "Cannot enable event correlations"},
	},
	CorrelationDisable: {
		confirm: [2]string{"Disable selected event correlation?", "Disable selected event correlations?"},
		success: [2]string{"Event correlation disabled", "Event correlations disabled"},
		failure: [2]string{"Cannot disable event correlation", "Cannot disable event correlations"},
	},
}

func plural(forms [2]string, count int) string {
	if count > 1 {
		return forms[1]
	}
	return forms[0]
}

// CorrelationActionResponse is the answer to a mass action. KeepIDs lists
// the rows that stay selected because they were not processed.
type CorrelationActionResponse struct {
	Success *MessageBox `json:"success,omitempty"`
	Error   *MessageBox `json:"error,omitempty"`
	KeepIDs []string    `json:"keepids,omitempty"`
}

type CorrelationHandler struct {
	service *services.CorrelationService
	bundle  *i18n.Bundle
	logger  logger.Logger
}

func NewCorrelationHandler(service *services.CorrelationService, bundle *i18n.Bundle, log logger.Logger) *CorrelationHandler {
	return &CorrelationHandler{service: service, bundle: bundle, logger: log}
}

func canManageCorrelations(u *models.User) bool {
	return u != nil && u.Type >= models.UserTypeSuperAdmin && u.HasRule(models.RuleUIConfigurationEventCorrelation)
}

// Actions handles GET /api/v1/correlation.list/actions?count=N and returns
// the confirmation texts and endpoints of the mass actions for N selected
// rows.
func (h *CorrelationHandler) Actions(c *gin.Context) {
	lang := middleware.Lang(c)
	count, err := strconv.Atoi(c.DefaultQuery("count", "1"))
	if err != nil || count < 0 {
		tr := h.bundle.Translator(lang)
		fatal(c, tr(widgets.MsgInvalidParameter, "count", tr(widgets.MsgIntegerExpected)))
		return
	}

	confirmations := make(map[string]string, len(correlationActionTexts))
	endpoints := make(map[string]string, len(correlationActionTexts))
	for action, texts := range correlationActionTexts {
		confirmations[action] = h.bundle.T(lang, plural(texts.confirm, count))
		endpoints[action] = "/api/v1/correlation." + action
	}
	c.JSON(http.StatusOK, gin.H{
		"confirmations": confirmations,
		"actions":       endpoints,
		"error_message": h.bundle.T(lang, msgUnexpectedError),
	})
}

// Delete handles POST /api/v1/correlation.delete.
func (h *CorrelationHandler) Delete(c *gin.Context) { h.run(c, CorrelationDelete) }

// Enable handles POST /api/v1/correlation.enable.
func (h *CorrelationHandler) Enable(c *gin.Context) { h.run(c, CorrelationEnable) }

// Disable handles POST /api/v1/correlation.disable.
func (h *CorrelationHandler) Disable(c *gin.Context) { h.run(c, CorrelationDisable) }

func (h *CorrelationHandler) run(c *gin.Context, action string) {
	lang := middleware.Lang(c)
	texts := correlationActionTexts[action]

	var req models.CorrelationIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RecordCorrelationAction(action, false)
		c.JSON(http.StatusBadRequest, CorrelationActionResponse{
			Error:   &MessageBox{Title: h.bundle.T(lang, plural(texts.failure, len(req.CorrelationIDs))), Messages: []string{err.Error()}},
			KeepIDs: req.CorrelationIDs,
		})
		return
	}
	count := len(req.CorrelationIDs)

	if !canManageCorrelations(middleware.CurrentUser(c)) {
		metrics.RecordCorrelationAction(action, false)
		c.JSON(http.StatusForbidden, CorrelationActionResponse{
			Error:   &MessageBox{Title: h.bundle.T(lang, plural(texts.failure, count)), Messages: []string{h.bundle.T(lang, msgNoPermissions)}},
			KeepIDs: req.CorrelationIDs,
		})
		return
	}

	tracer := tracing.GetGlobalTracer()
	ctx, span := tracer.StartCorrelationActionSpan(c.Request.Context(), action, count)
	defer span.End()

	var err error
	switch action {
	case CorrelationDelete:
		err = h.service.Delete(ctx, req.CorrelationIDs)
	case CorrelationEnable:
		err = h.service.SetStatus(ctx, req.CorrelationIDs, models.CorrelationStatusEnabled)
	case CorrelationDisable:
		err = h.service.SetStatus(ctx, req.CorrelationIDs, models.CorrelationStatusDisabled)
	}

	if err != nil {
		tracer.RecordError(span, err)
		msg := h.bundle.T(lang, msgUnexpectedError)
		if errors.Is(err, repo.ErrNotFound) {
			msg = h.bundle.T(lang, msgNoPermissions)
		} else {
			h.logger.Error("Correlation action failed", "action", action, "error", err)
		}
		metrics.RecordCorrelationAction(action, false)
		c.JSON(http.StatusOK, CorrelationActionResponse{
			Error:   &MessageBox{Title: h.bundle.T(lang, plural(texts.failure, count)), Messages: []string{msg}},
			KeepIDs: req.CorrelationIDs,
		})
		return
	}

	metrics.RecordCorrelationAction(action, true)
	c.JSON(http.StatusOK, CorrelationActionResponse{
		Success: &MessageBox{Title: h.bundle.T(lang, plural(texts.success, count))},
	})
}
