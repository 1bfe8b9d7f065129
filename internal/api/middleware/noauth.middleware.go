package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-console/internal/config"
	"github.com/platformbuilds/mirador-console/internal/models"
)

// NoAuthMiddleware injects the configured default user when authentication
// is disabled. Each request gets its own copy.
func NoAuthMiddleware(def config.DefaultUserConfig) gin.HandlerFunc {
	rules := make(map[string]bool, len(def.Rules))
	for _, r := range def.Rules {
		rules[r] = true
	}
	return func(c *gin.Context) {
		u := &models.User{
			UserID:    def.UserID,
			Username:  def.Username,
			Type:      def.Type,
			DebugMode: def.DebugMode,
			Rules:     make(map[string]bool, len(rules)),
		}
		for k, v := range rules {
			u.Rules[k] = v
		}
		SetUser(c, u)
		c.Next()
	}
}
