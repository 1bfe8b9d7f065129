package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/platformbuilds/mirador-console/internal/models"
)

// Context keys set by the middleware chain.
const (
	ContextUser      = "user"
	ContextUserID    = "user_id"
	ContextLanguage  = "lang"
	ContextRequestID = "request_id"
	ContextParams    = "legacy_params"
)

// CurrentUser returns the user attached by the auth middleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUser); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// SetUser attaches u to the request.
func SetUser(c *gin.Context, u *models.User) {
	c.Set(ContextUser, u)
	c.Set(ContextUserID, u.UserID)
}

// Lang returns the language negotiated by the Language middleware.
func Lang(c *gin.Context) language.Tag {
	if v, ok := c.Get(ContextLanguage); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return language.English
}
