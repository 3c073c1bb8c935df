package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/offerdeck/offerdeck/pkg/table"
)

// FormatTime produces a human relative time for recent values and a short
// date for older ones.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		m := int(diff.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case diff < 24*time.Hour:
		h := int(diff.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	case diff < 7*24*time.Hour:
		d := int(diff.Hours() / 24)
		if d == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", d)
	default:
		return t.Format("Jan 2, 2006")
	}
}

// StatusClass maps an offer status to its badge CSS class.
func StatusClass(status string) string {
	switch status {
	case "ACCEPTED":
		return "badge badge-accepted"
	case "REJECTED":
		return "badge badge-rejected"
	case "PENDING":
		return "badge badge-pending"
	default:
		return "badge"
	}
}

// GetTemplateFuncs returns the shared template function map.
func GetTemplateFuncs() template.FuncMap {
	titler := cases.Title(language.English)
	return template.FuncMap{
		"formatTime":  FormatTime,
		"statusClass": StatusClass,
		"title":       func(s string) string { return titler.String(strings.ToLower(s)) },
		"htmlEscape":  template.HTMLEscapeString,
		"safeHTML":    func(s string) template.HTML { return template.HTML(s) },
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		"has": func(values []string, v string) bool {
			for _, x := range values {
				if x == v {
					return true
				}
			}
			return false
		},
		"isAsc":  func(d table.SortDir) bool { return d == table.SortAsc },
		"isDesc": func(d table.SortDir) bool { return d == table.SortDesc },
	}
}
