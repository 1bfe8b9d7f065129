package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/platformbuilds/mirador-console/internal/api/middleware"
	"github.com/platformbuilds/mirador-console/internal/i18n"
	"github.com/platformbuilds/mirador-console/internal/models"
	"github.com/platformbuilds/mirador-console/internal/repo"
	"github.com/platformbuilds/mirador-console/internal/services"
	"github.com/platformbuilds/mirador-console/internal/timeparse"
	"github.com/platformbuilds/mirador-console/pkg/cache"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func testParser() timeparse.Parser {
	return timeparse.New(time.UTC, timeparse.FixedClock{T: testNow})
}

func superAdmin() *models.User {
	return &models.User{
		UserID:   "1",
		Username: "Admin",
		Name:     "Zabbix",
		Surname:  "Administrator",
		Type:     models.UserTypeSuperAdmin,
		Rules:    map[string]bool{models.RuleAll: true},
	}
}

// fixture wires the handlers on top of an in-memory store.
type fixture struct {
	store  cache.Cache
	users  repo.UserRepo
	tokens repo.TokenRepo
	corrs  repo.CorrelationRepo
	hosts  repo.HostRepo
	pager  repo.PagerRepo
	bundle *i18n.Bundle
	log    logger.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := cache.NewMemory(0)
	bundle, err := i18n.New("en", nil)
	require.NoError(t, err)
	return &fixture{
		store:  store,
		users:  repo.NewUserRepo(store),
		tokens: repo.NewTokenRepo(store),
		corrs:  repo.NewCorrelationRepo(store),
		hosts:  repo.NewHostRepo(store),
		pager:  repo.NewPagerRepo(store, time.Hour),
		bundle: bundle,
		log:    logger.NewNop(),
	}
}

// router returns an engine whose requests run as user in lang.
func (f *fixture) router(user *models.User, lang language.Tag) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(f.log))
	r.Use(func(c *gin.Context) {
		if user != nil {
			middleware.SetUser(c, user)
		}
		c.Set(middleware.ContextLanguage, lang)
		c.Next()
	})
	return r
}

func (f *fixture) tokenService() *services.TokenService {
	return services.NewTokenService(f.tokens, f.users, f.log)
}

func (f *fixture) correlationService() *services.CorrelationService {
	return services.NewCorrelationService(f.corrs, f.log)
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

var bg = context.Background()
