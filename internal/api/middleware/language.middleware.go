package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-console/internal/i18n"
)

// Language negotiates the response language. The authenticated user's own
// language wins over Accept-Language.
func Language(bundle *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		accept := c.GetHeader("Accept-Language")
		if u := CurrentUser(c); u != nil && u.Lang != "" && u.Lang != "default" {
			accept = u.Lang
		}
		tag := bundle.Match(accept)
		c.Set(ContextLanguage, tag)
		c.Header("Content-Language", tag.String())
		c.Next()
	}
}
