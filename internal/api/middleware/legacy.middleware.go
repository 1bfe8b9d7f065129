package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-console/internal/i18n"
	"github.com/platformbuilds/mirador-console/internal/rbac"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

// MsgNoPermissions is the denial shown for legacy pages.
const MsgNoPermissions = "No permissions to referred object or it does not exist!"

// Legacy pages whose forms are posted as a single JSON document.
var formDataJSONActions = map[string]bool{
	"templates.php":       true,
	"host_prototypes.php": true,
}

// LegacyAction guards /legacy/:action. It collects the request parameters,
// applies the permission table and stores the parameters under
// ContextParams. Legacy forms carry no CSRF token, so none is checked.
func LegacyAction(bundle *i18n.Bundle, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := c.Param("action")

		params, err := legacyParams(c, action)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user := CurrentUser(c)
		if !rbac.LegacyAccess(user, action, params) {
			uid := ""
			if user != nil {
				uid = user.UserID
			}
			log.Warn("Legacy action denied", "action", action, "user_id", uid)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": bundle.T(Lang(c), MsgNoPermissions),
			})
			return
		}

		c.Set(ContextParams, params)
		c.Next()
	}
}

// LegacyParams returns the parameters collected by LegacyAction.
func LegacyParams(c *gin.Context) rbac.MapParams {
	if v, ok := c.Get(ContextParams); ok {
		if p, ok := v.(rbac.MapParams); ok {
			return p
		}
	}
	return rbac.MapParams{}
}

func legacyParams(c *gin.Context, action string) (rbac.MapParams, error) {
	params := rbac.MapParams{}
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	if c.Request.Method == http.MethodPost {
		if err := c.Request.ParseForm(); err == nil {
			for k, v := range c.Request.PostForm {
				if len(v) > 0 {
					params[k] = v[0]
				}
			}
		}
	}

	raw, ok := params["formdata_json"]
	if !ok || !formDataJSONActions[action] {
		return params, nil
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("invalid formdata_json: %w", err)
	}
	replaced := make(rbac.MapParams, len(doc))
	for k, v := range doc {
		switch v := v.(type) {
		case string:
			replaced[k] = v
		case map[string]any, []any:
			b, _ := json.Marshal(v)
			replaced[k] = string(b)
		case nil:
			replaced[k] = ""
		default:
			replaced[k] = fmt.Sprint(v)
		}
	}
	return replaced, nil
}
