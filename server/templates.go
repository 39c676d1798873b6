package server

import (
	"embed"
	"fmt"
	"html/template"
	"math"

	"howmuch-apple/services"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"won":   services.FormatWon,
	"count": services.FormatCount,
	"wonf": func(v float64) string {
		return services.FormatWon(int64(math.Round(v)))
	},
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
	"signed": func(v float64) string {
		return fmt.Sprintf("%+.1f%%", v)
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}
