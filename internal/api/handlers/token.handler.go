package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/platformbuilds/mirador-console/internal/api/middleware"
	"github.com/platformbuilds/mirador-console/internal/i18n"
	"github.com/platformbuilds/mirador-console/internal/metrics"
	"github.com/platformbuilds/mirador-console/internal/models"
	"github.com/platformbuilds/mirador-console/internal/repo"
	"github.com/platformbuilds/mirador-console/internal/services"
	"github.com/platformbuilds/mirador-console/internal/timeparse"
	"github.com/platformbuilds/mirador-console/internal/tracing"
	"github.com/platformbuilds/mirador-console/internal/widgets"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

const (
	msgCannotUpdateToken = "Cannot update API token"
	msgTokenUpdated      = "API token updated"
	msgUnexpectedError   = "Unexpected server error."
	msgNoPermissions     = middleware.MsgNoPermissions
)

// Token update input rules. Fatal parameters abort the request; the rest
// send the user back to the edit form.
var (
	tokenFatalRules = []inputRule{
		{"tokenid", "required,numeric"},
		{"action_src", "required,oneof=token.edit user.token.edit"},
		{"action_dst", "required,oneof=token.list user.token.list token.view user.token.view"},
	}
	tokenRules = []inputRule{
		{"name", "required,max=64"},
		{"description", "max=65535"},
		{"expires_state", "required,oneof=0 1"},
		{"status", "required,oneof=0 1"},
		{"regenerate", "omitempty,oneof=1"},
	}
)

type inputRule struct {
	name string
	tag  string
}

// ParserFunc returns the time parser for the current request.
type ParserFunc func() timeparse.Parser

type TokenHandler struct {
	tokens   *services.TokenService
	pager    repo.PagerRepo
	bundle   *i18n.Bundle
	parser   ParserFunc
	validate *validator.Validate
	logger   logger.Logger
}

func NewTokenHandler(tokens *services.TokenService, pager repo.PagerRepo, bundle *i18n.Bundle, parser ParserFunc, log logger.Logger) *TokenHandler {
	return &TokenHandler{
		tokens:   tokens,
		pager:    pager,
		bundle:   bundle,
		parser:   parser,
		validate: validator.New(),
		logger:   log,
	}
}

// checkInput returns the messages of every failed rule.
func (h *TokenHandler) checkInput(tr widgets.Translator, in map[string]string, rules []inputRule) []string {
	var msgs []string
	for _, r := range rules {
		var verrs validator.ValidationErrors
		if err := h.validate.Var(in[r.name], r.tag); !errors.As(err, &verrs) {
			continue
		}
		fe := &widgets.FieldError{Path: r.name, Cause: widgets.ErrStructural}
		switch first := verrs[0]; first.Tag() {
		case "required":
			fe.Detail = widgets.MsgCannotBeEmpty
		case "max":
			fe.Detail = widgets.MsgTooLong
		case "numeric":
			fe.Detail = widgets.MsgNumberExpected
		default:
			fe.Detail = widgets.MsgOneOf
			fe.Args = []any{strings.ReplaceAll(first.Param(), " ", ", ")}
		}
		msgs = append(msgs, fe.Text(tr))
	}
	return msgs
}

// Update handles POST /api/v1/token.update.
func (h *TokenHandler) Update(c *gin.Context) {
	lang := middleware.Lang(c)
	tr := h.bundle.Translator(lang)

	in, err := inputValues(c)
	if err != nil {
		metrics.RecordTokenUpdate("fatal")
		fatal(c, err.Error())
		return
	}
	if msgs := h.checkInput(tr, in, tokenFatalRules); len(msgs) > 0 {
		metrics.RecordTokenUpdate("fatal")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": MessageBox{Title: h.bundle.T(lang, msgCannotUpdateToken), Messages: msgs}})
		return
	}

	msgs := h.checkInput(tr, in, tokenRules)
	var expiresAt int64
	if len(msgs) == 0 && in["expires_state"] == "1" {
		expiresAt, err = h.resolveExpiry(in["expires_at"])
		if err != nil {
			fe := &widgets.FieldError{Path: "expires_at", Detail: widgets.MsgTimeExpected, Cause: widgets.ErrTimeParse}
			msgs = append(msgs, fe.Text(tr))
		}
	}
	if len(msgs) > 0 {
		metrics.RecordTokenUpdate("invalid")
		h.backToForm(c, in, msgs)
		return
	}

	user := middleware.CurrentUser(c)
	if !user.HasRule(models.RuleActionsManageAPITokens) || !user.HasRule(models.RuleUIAdministrationGeneral) {
		metrics.RecordTokenUpdate("denied")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": MessageBox{Title: h.bundle.T(lang, msgNoPermissions)}})
		return
	}

	status, _ := strconv.Atoi(in["status"])
	update := models.TokenUpdate{
		TokenID:     in["tokenid"],
		Name:        in["name"],
		Description: in["description"],
		ExpiresAt:   expiresAt,
		Status:      status,
	}

	tracer := tracing.GetGlobalTracer()
	ctx, span := tracer.StartTokenUpdateSpan(c.Request.Context(), update.TokenID, in["regenerate"] == "1")
	defer span.End()

	tokenID, err := h.tokens.Update(ctx, update)
	if err != nil {
		tracer.RecordError(span, err)
		h.logger.Warn("Token update failed", "tokenid", update.TokenID, "error", err)
		metrics.RecordTokenUpdate("failed")
		h.backToForm(c, in, []string{h.failureMessage(lang, err)})
		return
	}

	if in["regenerate"] == "1" {
		h.regenerate(ctx, c, tokenID, update, in["action_dst"])
		return
	}

	page := 1
	if user != nil {
		if page, err = h.pager.LoadPage(ctx, user.UserID, in["action_dst"]); err != nil {
			h.logger.Warn("Failed to load remembered page", "action", in["action_dst"], "error", err)
		}
	}
	metrics.RecordTokenUpdate("updated")
	c.JSON(http.StatusOK, RedirectResponse{
		Redirect: actionURL(in["action_dst"], "page", strconv.Itoa(page)),
		FormData: map[string]any{"uncheck": "1"},
		Success:  &MessageBox{Title: h.bundle.T(lang, msgTokenUpdated)},
	})
}

func (h *TokenHandler) regenerate(ctx context.Context, c *gin.Context, tokenID string, update models.TokenUpdate, actionDst string) {
	lang := middleware.Lang(c)

	tok, err := h.tokens.Get(ctx, tokenID)
	if err != nil {
		h.serverError(ctx, c, err)
		return
	}
	owner, err := h.tokens.Owner(ctx, tok, middleware.CurrentUser(c))
	if err != nil {
		h.serverError(ctx, c, err)
		return
	}
	secret, err := h.tokens.Generate(ctx, tokenID)
	if err != nil {
		h.serverError(ctx, c, err)
		return
	}

	metrics.RecordTokenUpdate("regenerated")
	c.JSON(http.StatusOK, RedirectResponse{
		Redirect: actionURL(actionDst),
		FormData: map[string]any{
			"name":        update.Name,
			"user":        owner.FullName(),
			"auth_token":  secret,
			"expires_at":  update.ExpiresAt,
			"description": update.Description,
			"status":      update.Status,
		},
		Success: &MessageBox{Title: h.bundle.T(lang, msgTokenUpdated)},
	})
}

// resolveExpiry turns an absolute or relative time into unix seconds. An
// empty value means now.
func (h *TokenHandler) resolveExpiry(s string) (int64, error) {
	p := h.parser()
	if s == "" {
		return p.Now().Unix(), nil
	}
	t, err := p.Resolve(s, true)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// backToForm redirects to the edit form with the submitted input.
func (h *TokenHandler) backToForm(c *gin.Context, in map[string]string, msgs []string) {
	formData := make(map[string]any, len(in))
	for k, v := range in {
		formData[k] = v
	}
	c.JSON(http.StatusOK, RedirectResponse{
		Redirect: actionURL(in["action_src"], "tokenid", in["tokenid"]),
		FormData: formData,
		Error:    &MessageBox{Title: h.bundle.T(middleware.Lang(c), msgCannotUpdateToken), Messages: msgs},
	})
}

func (h *TokenHandler) failureMessage(lang language.Tag, err error) string {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return h.bundle.T(lang, msgNoPermissions)
	case errors.Is(err, services.ErrInvalidToken):
		return err.Error()
	}
	return h.bundle.T(lang, msgUnexpectedError)
}

func (h *TokenHandler) serverError(ctx context.Context, c *gin.Context, err error) {
	tracing.GetGlobalTracer().RecordError(trace.SpanFromContext(ctx), err)
	h.logger.Error("Token regeneration failed", "error", err)
	metrics.RecordTokenUpdate("failed")
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": MessageBox{Title: h.bundle.T(middleware.Lang(c), msgUnexpectedError)}})
}
