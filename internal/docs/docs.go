// Package docs serves the embedded OpenAPI description of the API.
package docs

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPI []byte

// Document decodes the embedded OpenAPI file. serverURL, when set,
// replaces the relative server entry.
func Document(serverURL string) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPI, &doc); err != nil {
		return nil, fmt.Errorf("decode openapi: %w", err)
	}
	if serverURL != "" {
		doc["servers"] = []any{map[string]any{"url": serverURL}}
	}
	return doc, nil
}

// Register mounts GET <group>/docs (JSON) and <group>/docs/openapi.yaml.
func Register(group gin.IRoutes, serverURL string) error {
	doc, err := Document(serverURL)
	if err != nil {
		return err
	}
	group.GET("/docs", func(c *gin.Context) {
		c.JSON(http.StatusOK, doc)
	})
	group.GET("/docs/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", openAPI)
	})
	return nil
}
