package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-console/internal/api/middleware"
	"github.com/platformbuilds/mirador-console/internal/rbac"
	"github.com/platformbuilds/mirador-console/internal/repo"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

type LegacyHandler struct {
	pager  repo.PagerRepo
	logger logger.Logger
}

func NewLegacyHandler(pager repo.PagerRepo, log logger.Logger) *LegacyHandler {
	return &LegacyHandler{pager: pager, logger: log}
}

// Handle answers /legacy/:action once LegacyAction has let the request
// through. A "page" parameter is remembered for the effective action so
// that later redirects to the list land on it.
func (h *LegacyHandler) Handle(c *gin.Context) {
	action := c.Param("action")
	params := middleware.LegacyParams(c)
	effective := rbac.EffectiveAction(action, params)

	if raw, ok := params["page"]; ok {
		page, err := strconv.Atoi(raw)
		if user := middleware.CurrentUser(c); err == nil && user != nil {
			if err := h.pager.SavePage(c.Request.Context(), user.UserID, effective, page); err != nil {
				h.logger.Warn("Failed to remember page", "action", effective, "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"action":           action,
		"effective_action": effective,
		"params":           params,
	})
}
