package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOpenAPISpec_OK(t *testing.T) {
	r := gin.New()
	r.GET("/api/openapi.json", GetOpenAPISpec)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc struct {
		Info  struct{ Version string }  `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, Version, doc.Info.Version)

	for path, method := range map[string]string{
		"/api/v1/dashboard/widget/check":             "post",
		"/api/v1/dashboard/widget/time-period/check": "post",
		"/api/v1/token.update":                       "post",
		"/api/v1/correlation.list/actions":           "get",
		"/api/v1/correlation.enable":                 "post",
		"/api/v1/correlation.disable":                "post",
		"/api/v1/correlation.delete":                 "post",
		"/api/v1/popup/host.edit":                    "get",
		"/legacy/{action}":                           "post",
	} {
		require.Contains(t, doc.Paths, path)
		assert.Contains(t, doc.Paths[path], method, path)
	}
}

func TestGetOpenAPIYAML_OK(t *testing.T) {
	r := gin.New()
	r.GET("/api/openapi.yaml", GetOpenAPIYAML)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/openapi.yaml", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/yaml")
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}
