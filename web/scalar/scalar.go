// Package scalar serves the Scalar API reference UI for the OpenAPI document
// published by the API module.
package scalar

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/JaimeStill/tally/pkg/module"
)

const page = `<!doctype html>
<html>
<head>
  <title>{{ .Title }}</title>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
</head>
<body>
  <script id="api-reference" data-url="{{ .SpecURL }}"></script>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>
`

var tmpl = template.Must(template.New("index").Parse(page))

// NewModule creates a module that serves the Scalar API reference UI at
// basePath, pointed at the OpenAPI document found at specURL.
func NewModule(basePath, specURL, title string) (*module.Module, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, map[string]string{
		"Title":   title,
		"SpecURL": specURL,
	})
	if err != nil {
		return nil, err
	}

	return module.New(basePath, buildRouter(basePath, buf.Bytes())), nil
}

func buildRouter(basePath string, index []byte) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(index)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, basePath+"/", http.StatusFound)
	})
	return mux
}
