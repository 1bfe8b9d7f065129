package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/platformbuilds/mirador-console/internal/api/middleware"
	"github.com/platformbuilds/mirador-console/internal/models"
)

func (f *fixture) legacyRouter(user *models.User) http.Handler {
	h := NewLegacyHandler(f.pager, f.log)
	r := f.router(user, language.English)
	legacy := r.Group("/legacy", middleware.LegacyAction(f.bundle, f.log))
	legacy.GET("/:action", h.Handle)
	legacy.POST("/:action", h.Handle)
	return r
}

type legacyBody struct {
	Action          string            `json:"action"`
	EffectiveAction string            `json:"effective_action"`
	Params          map[string]string `json:"params"`
}

func TestLegacyHandler_EffectiveActionAndPage(t *testing.T) {
	f := newFixture(t)
	r := f.legacyRouter(superAdmin())

	w := doJSON(r, http.MethodGet, "/legacy/triggers.php?context=host&page=4", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[legacyBody](t, w)
	assert.Equal(t, "triggers.php", body.Action)
	assert.Equal(t, "host.list", body.EffectiveAction)
	assert.Equal(t, "4", body.Params["page"])

	page, err := f.pager.LoadPage(bg, "1", "host.list")
	require.NoError(t, err)
	assert.Equal(t, 4, page)
}

func TestLegacyHandler_FormDataJSON(t *testing.T) {
	f := newFixture(t)
	r := f.legacyRouter(superAdmin())

	form := url.Values{"formdata_json": {`{"templateid":"10001","name":"Linux"}`}}
	req := httptest.NewRequest(http.MethodPost, "/legacy/templates.php", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[legacyBody](t, w)
	assert.Equal(t, map[string]string{"templateid": "10001", "name": "Linux"}, body.Params)
}

func TestLegacyHandler_Denied(t *testing.T) {
	f := newFixture(t)
	guest := &models.User{UserID: "9", Username: "guest", Type: models.UserTypeUser}
	r := f.legacyRouter(guest)

	w := doJSON(r, http.MethodGet, "/legacy/triggers.php?context=host", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
