// Package rendering renders paginated resumes as read-only HTML pages.
package rendering

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/jonathan/resume-layout/internal/types"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// CSSColor returns color as a CSS value when it is a hex color, or the
// default primary color otherwise.
func CSSColor(color string) template.CSS {
	color = strings.TrimSpace(color)
	if !hexColorPattern.MatchString(color) {
		color = types.DefaultDesign().PrimaryColor
	}
	return template.CSS(color) //nolint:gosec // restricted to hex colors above
}

// FontStack returns a CSS font-family list with family first and a generic
// fallback. Characters that could break out of the declaration are dropped.
func FontStack(family string) template.CSS {
	var b strings.Builder
	for _, r := range family {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	name := strings.Join(strings.Fields(b.String()), " ")
	if name == "" {
		return "sans-serif"
	}
	return template.CSS(`"` + name + `", sans-serif`) //nolint:gosec // sanitized above
}
