package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-console/internal/api/middleware"
	"github.com/platformbuilds/mirador-console/internal/i18n"
	"github.com/platformbuilds/mirador-console/internal/models"
	"github.com/platformbuilds/mirador-console/internal/repo"
	"github.com/platformbuilds/mirador-console/internal/widgets"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

//go:embed templates
var templatesFS embed.FS

var hostEditTemplate = template.Must(template.ParseFS(templatesFS, "templates/host_edit.html"))

const hostFormName = "host-form"

// PopupButton is a dialogue button of a popup.
type PopupButton struct {
	Title        string `json:"title"`
	Class        string `json:"class"`
	KeepOpen     bool   `json:"keepOpen"`
	IsSubmit     bool   `json:"isSubmit"`
	Action       string `json:"action,omitempty"`
	Confirmation string `json:"confirmation,omitempty"`
}

// PopupResponse is the JSON document a popup is rendered from.
type PopupResponse struct {
	Header       string        `json:"header"`
	Body         string        `json:"body"`
	ScriptInline string        `json:"script_inline"`
	Buttons      []PopupButton `json:"buttons"`
	Debug        string        `json:"debug,omitempty"`
}

type hostFormLabels struct {
	Host, VisibleName, Groups, Description, Enabled string
}

type PopupHandler struct {
	hosts  repo.HostRepo
	bundle *i18n.Bundle
	logger logger.Logger
	now    func() time.Time
}

func NewPopupHandler(hosts repo.HostRepo, bundle *i18n.Bundle, log logger.Logger) *PopupHandler {
	return &PopupHandler{hosts: hosts, bundle: bundle, logger: log, now: time.Now}
}

// HostEdit handles GET /api/v1/popup/host.edit. hostid 0 or absent opens
// the form of a new host.
func (h *PopupHandler) HostEdit(c *gin.Context) {
	start := h.now()
	lang := middleware.Lang(c)
	t := func(key string) string { return h.bundle.T(lang, key) }

	user := middleware.CurrentUser(c)
	if user == nil || user.Type < models.UserTypeAdmin || !user.HasRule(models.RuleUIConfigurationHosts) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": MessageBox{Title: t(msgNoPermissions)}})
		return
	}

	hostID := c.DefaultQuery("hostid", "0")
	if _, err := strconv.ParseUint(hostID, 10, 64); err != nil {
		tr := h.bundle.Translator(lang)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": MessageBox{Title: tr(widgets.MsgInvalidParameter, "hostid", tr(widgets.MsgNumberExpected))}})
		return
	}

	host := &models.Host{HostID: "0"}
	isNew := hostID == "0" || hostID == ""
	if !isNew {
		var err error
		host, err = h.hosts.GetHost(c.Request.Context(), hostID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": MessageBox{Title: t(msgNoPermissions)}})
				return
			}
			h.logger.Error("Host lookup failed", "hostid", hostID, "error", err)
			_ = c.Error(err)
			c.Abort()
			return
		}
	}

	var body bytes.Buffer
	err := hostEditTemplate.Execute(&body, map[string]any{
		"FormName": hostFormName,
		"Action":   actionURL("host.update"),
		"Host":     host,
		"Labels": hostFormLabels{
			Host:        t("Host name"),
			VisibleName: t("Visible name"),
			Groups:      t("Host groups"),
			Description: t("Description"),
			Enabled:     t("Enabled"),
		},
	})
	if err != nil {
		h.logger.Error("Host form rendering failed", "error", err)
		_ = c.Error(err)
		c.Abort()
		return
	}

	submit := fmt.Sprintf(`host_edit.submit(document.getElementById(%q));`, hostFormName)
	resp := PopupResponse{
		Body:         body.String(),
		ScriptInline: "; setupHostPopup();",
	}
	if isNew {
		resp.Header = t("New host")
		resp.Buttons = []PopupButton{
			{Title: t("Add"), KeepOpen: true, IsSubmit: true, Action: submit},
		}
	} else {
		resp.Header = t("Host")
		resp.Buttons = []PopupButton{
			{Title: t("Update"), KeepOpen: true, IsSubmit: true, Action: submit},
			{Title: t("Clone"), Class: "btn-alt js-clone-host", KeepOpen: true},
			{Title: t("Full clone"), Class: "btn-alt js-full-clone-host", KeepOpen: true},
			{
				Title:        t("Delete"),
				Confirmation: t("Delete selected host?"),
				Class:        "btn-alt",
				KeepOpen:     true,
				Action:       "host_edit.deleteHost();",
			},
		}
	}

	if user.IsDebug() {
		resp.Debug = fmt.Sprintf("Total time: %.6f", h.now().Sub(start).Seconds())
	}

	c.JSON(http.StatusOK, resp)
}
