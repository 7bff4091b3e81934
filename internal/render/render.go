package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"tripgen/internal/model"
)

// embeddedTemplates holds the default itinerary template used when no
// template file is supplied.
//
//go:embed templates/default.html
var embeddedTemplates embed.FS

// templateFuncs are the helpers available to itinerary templates.
var templateFuncs = template.FuncMap{
	"clock": func(t time.Time) string { return t.Format("3:04 PM") },
	"date":  func(t time.Time) string { return t.Format("Monday, Jan 02, 2006") },
}

// RenderItinerary renders the context through the template at
// templatePath (or the embedded default when empty) and writes the
// result to outputPath. Returns the output path on success.
func RenderItinerary(templatePath string, ctx model.RenderContext, outputPath string) (string, error) {
	var (
		tpl *template.Template
		err error
	)
	if templatePath == "" {
		tpl, err = template.New("default.html").Funcs(templateFuncs).ParseFS(embeddedTemplates, "templates/default.html")
	} else {
		tpl, err = template.New(filepath.Base(templatePath)).Funcs(templateFuncs).ParseFiles(templatePath)
	}
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	// Render into memory first so a template error never leaves a
	// truncated output file behind.
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write html: %w", err)
	}
	return outputPath, nil
}
