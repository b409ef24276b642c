package nginx

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// parseTemplates loads the hierarchical template set (main → server →
// location → ssl) once at construction. Rendering is pure afterwards.
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse nginx templates: %w", err)
	}
	return tmpl, nil
}

func renderTemplate(tmpl *template.Template, name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// sslTemplateData feeds the ssl block template with resolved file paths.
type sslTemplateData struct {
	CertPath string
	KeyPath  string
}
