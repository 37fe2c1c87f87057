package web

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/sstent/podsync-go/internal/analysis"
)

//go:embed templates/layouts/*.html templates/pages/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded layouts and pages.
func LoadTemplates() (*template.Template, error) {
	return template.New("base").
		Funcs(template.FuncMap{"num": formatNumber}).
		ParseFS(templateFS, "templates/layouts/*.html", "templates/pages/*.html")
}

// formatNumber prints at most two decimals without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(analysis.Round(v, 2), 'f', -1, 64)
}
