package handler

import (
	_ "embed"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// Minimal HTML page that loads Swagger UI from a CDN and points it at
// /openapi.yaml, so no UI assets ship in the binary.
//
//go:embed swagger.html
var swaggerHTML string

// RegisterDocs mounts documentation endpoints at the root:
//   - GET /openapi.yaml: raw API description served from api/openapi.yaml
//   - GET /docs: Swagger UI rendering of it
func RegisterDocs(r *gin.Engine) {
	r.GET("/openapi.yaml", func(c *gin.Context) {
		data, err := os.ReadFile("api/openapi.yaml")
		if err != nil {
			c.String(http.StatusInternalServerError, "failed to read openapi.yaml: %v", err)
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", data)
	})
	r.GET("/docs", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})
}
