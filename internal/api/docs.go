package api

import (
	"encoding/json"
	"net/http"
	"sync"
)

// RegisterDocsRoutes serves the Swagger UI at /docs and the OpenAPI document at /docs/openapi.
// The document is JSON unless ?format=yaml asks for the embedded source.
func RegisterDocsRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /docs", serveSwaggerUI)
	mux.HandleFunc("GET /docs/openapi", serveOpenAPIDocument)
}

var openapiJSON = sync.OnceValues(func() ([]byte, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
})

func serveOpenAPIDocument(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "yaml" {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(openapiSpec) //nolint:errcheck // status already sent
		return
	}

	body, err := openapiJSON()
	if err != nil {
		_ = writeJSON(w, http.StatusInternalServerError, ErrorResponse{ //nolint:errcheck // status already sent
			Error:   ErrorKindInternal,
			Message: "OpenAPI document unavailable",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body) //nolint:errcheck // status already sent
}

func serveSwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(swaggerPage)) //nolint:errcheck // status already sent
}

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Paytm Mediator API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body style="margin:0">
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({ url: '/docs/openapi', dom_id: '#swagger-ui', tryItOutEnabled: true });
  </script>
</body>
</html>`
