package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/platformbuilds/mirador-console/internal/models"
)

func (f *fixture) popupRouter(user *models.User) (http.Handler, *PopupHandler) {
	h := NewPopupHandler(f.hosts, f.bundle, f.log)
	r := f.router(user, language.English)
	r.GET("/api/v1/popup/host.edit", h.HostEdit)
	return r, h
}

func buttonTitles(buttons []PopupButton) []string {
	out := make([]string, 0, len(buttons))
	for _, b := range buttons {
		out = append(out, b.Title)
	}
	return out
}

func TestHostEdit_NewHost(t *testing.T) {
	f := newFixture(t)
	r, _ := f.popupRouter(superAdmin())

	for _, path := range []string{"/api/v1/popup/host.edit", "/api/v1/popup/host.edit?hostid=0"} {
		w := doJSON(r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[PopupResponse](t, w)

		assert.Equal(t, "New host", resp.Header)
		assert.Equal(t, []string{"Add"}, buttonTitles(resp.Buttons))
		assert.True(t, resp.Buttons[0].IsSubmit)
		assert.True(t, resp.Buttons[0].KeepOpen)
		assert.Contains(t, resp.Buttons[0].Action, `"host-form"`)
		assert.Equal(t, "; setupHostPopup();", resp.ScriptInline)
		assert.Contains(t, resp.Body, `id="host-form"`)
		assert.Empty(t, resp.Debug)
	}
}

func TestHostEdit_ExistingHost(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.hosts.SaveHost(bg, &models.Host{
		HostID: "10084", Host: "web<01>", Name: "Web server", GroupIDs: []string{"2", "4"},
	}))
	r, _ := f.popupRouter(superAdmin())

	w := doJSON(r, http.MethodGet, "/api/v1/popup/host.edit?hostid=10084", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[PopupResponse](t, w)

	assert.Equal(t, "Host", resp.Header)
	assert.Equal(t, []string{"Update", "Clone", "Full clone", "Delete"}, buttonTitles(resp.Buttons))
	assert.Equal(t, "Delete selected host?", resp.Buttons[3].Confirmation)
	assert.Equal(t, "host_edit.deleteHost();", resp.Buttons[3].Action)
	assert.Equal(t, "btn-alt js-clone-host", resp.Buttons[1].Class)
	assert.Contains(t, resp.Body, `value="10084"`)
	assert.Contains(t, resp.Body, "web&lt;01&gt;")
	assert.False(t, strings.Contains(resp.Body, "web<01>"))
}

func TestHostEdit_Errors(t *testing.T) {
	f := newFixture(t)
	guest := &models.User{UserID: "3", Username: "guest", Type: models.UserTypeUser, Rules: map[string]bool{models.RuleAll: true}}
	noRule := &models.User{UserID: "4", Username: "admin", Type: models.UserTypeAdmin, Rules: map[string]bool{models.RuleUIConfigurationHosts: false}}

	tests := []struct {
		name string
		user *models.User
		path string
		code int
	}{
		{"anonymous", nil, "/api/v1/popup/host.edit", http.StatusForbidden},
		{"plain user", guest, "/api/v1/popup/host.edit", http.StatusForbidden},
		{"admin without hosts rule", noRule, "/api/v1/popup/host.edit", http.StatusForbidden},
		{"negative id", superAdmin(), "/api/v1/popup/host.edit?hostid=-1", http.StatusBadRequest},
		{"unknown host", superAdmin(), "/api/v1/popup/host.edit?hostid=42", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := f.popupRouter(tt.user)
			w := doJSON(r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestHostEdit_InvalidHostID(t *testing.T) {
	f := newFixture(t)
	h := NewPopupHandler(f.hosts, f.bundle, f.log)

	tests := []struct {
		lang language.Tag
		want string
	}{
		{language.English, `Invalid parameter "hostid": a number is expected.`},
		{language.Russian, `Некорректный параметр "hostid": ожидается число.`},
	}
	for _, tt := range tests {
		t.Run(tt.lang.String(), func(t *testing.T) {
			r := f.router(superAdmin(), tt.lang)
			r.GET("/api/v1/popup/host.edit", h.HostEdit)

			w := doJSON(r, http.MethodGet, "/api/v1/popup/host.edit?hostid=abc", nil)
			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[struct {
				Error MessageBox `json:"error"`
			}](t, w)
			assert.Equal(t, tt.want, resp.Error.Title)
		})
	}
}

func TestHostEdit_DebugTiming(t *testing.T) {
	f := newFixture(t)
	user := superAdmin()
	user.DebugMode = models.DebugModeEnabled
	r, h := f.popupRouter(user)

	calls := 0
	h.now = func() time.Time {
		calls++
		return testNow.Add(time.Duration(calls) * 250 * time.Millisecond)
	}

	w := doJSON(r, http.MethodGet, "/api/v1/popup/host.edit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[PopupResponse](t, w)
	assert.Equal(t, "Total time: 0.250000", resp.Debug)
}
