package fakeapi

import (
	"encoding/json"
	"strings"

	"github.com/swaggo/swag"

	"stockify/internal/repository/endpoint"
)

// routeDocs publica a tabela de endpoints como documento Swagger 2.0,
// servido por http-swagger em /swagger/doc.json.
type routeDocs struct{}

func (routeDocs) ReadDoc() string {
	paths := make(map[string]map[string]interface{})
	for _, e := range endpoint.All() {
		op := map[string]interface{}{
			"operationId": e.Name,
			"tags":        []string{strings.SplitN(e.Name, ".", 2)[0]},
			"produces":    []string{"application/json"},
			"responses": map[string]interface{}{
				"200": map[string]string{"description": "OK"},
				"401": map[string]string{"description": "Token ausente, inválido ou expirado"},
				"404": map[string]string{"description": "Não encontrado"},
			},
		}
		if strings.Contains(e.Path, "{id}") {
			op["parameters"] = []map[string]interface{}{
				{"name": "id", "in": "path", "required": true, "type": "integer", "format": "int64"},
			}
		}
		if paths[e.Path] == nil {
			paths[e.Path] = make(map[string]interface{})
		}
		paths[e.Path][strings.ToLower(e.Method)] = op
	}

	doc, _ := json.Marshal(map[string]interface{}{
		"swagger":  "2.0",
		"info":     map[string]string{"title": "Stockify API (fake)", "version": "1.0"},
		"basePath": "/api",
		"paths":    paths,
	})
	return string(doc)
}

func init() {
	swag.Register(swag.Name, routeDocs{})
}
