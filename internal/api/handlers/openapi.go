package handlers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

// GetOpenAPIYAML serves the embedded OpenAPI document as written.
func GetOpenAPIYAML(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", openAPIYAML)
}

// GetOpenAPISpec serves the OpenAPI document converted to JSON, with
// info.version set to the running build.
func GetOpenAPISpec(c *gin.Context) {
	var obj any
	if err := yaml.Unmarshal(openAPIYAML, &obj); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "failed to parse openapi.yaml"})
		return
	}
	if m, ok := obj.(map[string]any); ok {
		if info, ok := m["info"].(map[string]any); ok {
			info["version"] = Version
		}
	}
	c.JSON(http.StatusOK, obj)
}
