package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-console/internal/i18n"
	"github.com/platformbuilds/mirador-console/pkg/cache"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

const serviceName = "mirador-console"

// Version is set at build time with -ldflags.
var Version = "dev"

type HealthHandler struct {
	cache  cache.Cache
	bundle *i18n.Bundle
	logger logger.Logger
	now    func() time.Time
}

func NewHealthHandler(c cache.Cache, bundle *i18n.Bundle, log logger.Logger) *HealthHandler {
	return &HealthHandler{cache: c, bundle: bundle, logger: log, now: time.Now}
}

// GET /health - liveness
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"version":   Version,
		"timestamp": h.now().Format(time.RFC3339),
	})
}

// GET /ready - the console is ready when its store answers and every
// supported language has translations loaded.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{}
	ready := true

	if err := h.cache.HealthCheck(ctx); err != nil {
		h.logger.Warn("Store health check failed", "error", err)
		checks["store"] = gin.H{"status": "unhealthy", "error": err.Error()}
		ready = false
	} else {
		checks["store"] = gin.H{"status": "healthy"}
	}

	translations := gin.H{}
	for _, lang := range i18n.SupportedLanguages {
		n := h.bundle.TranslationCount(lang)
		translations[lang] = n
		if n == 0 {
			ready = false
		}
	}
	checks["translations"] = translations

	status, code := "healthy", http.StatusOK
	if !ready {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"service":   serviceName,
		"version":   Version,
		"checks":    checks,
		"timestamp": h.now().Format(time.RFC3339),
	})
}
