// Package theme holds the built-in color catalog and resolves a theme id,
// plus an optional custom gradient pair, into the CSS custom properties the
// public page is styled with.
package theme

import (
	"regexp"
	"slices"
	"strings"

	"github.com/alexraskin/linkflow/internal/models"
)

const (
	Default = "light"
	Custom  = "custom"
)

// Roles is the fixed variable contract every theme must populate, in
// emission order.
var Roles = []string{
	"background",
	"foreground",
	"card",
	"primary",
	"primary-foreground",
	"secondary",
	"secondary-foreground",
	"muted",
	"muted-foreground",
	"accent",
	"accent-foreground",
	"border",
	"input",
	"ring",
}

// Fallbacks used when a custom gradient endpoint is missing.
var (
	DefaultBackgroundGradient = models.Gradient{From: "#0f172a", To: "#1e293b"}
	DefaultButtonGradient     = models.Gradient{From: "#8b5cf6", To: "#ec4899"}
)

// Custom gradient variable names.
const (
	VarBackgroundFrom = "--custom-bg-from"
	VarBackgroundTo   = "--custom-bg-to"
	VarButtonFrom     = "--custom-btn-from"
	VarButtonTo       = "--custom-btn-to"
)

type Var struct {
	Name  string
	Value string
}

// RoleMap is an ordered list of CSS custom properties.
type RoleMap []Var

func (m RoleMap) Get(name string) (string, bool) {
	for _, v := range m {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// Property returns the CSS custom property name for a role.
func Property(role string) string {
	return "--" + role
}

// IDs lists every selectable theme id, custom last.
func IDs() []string {
	ids := make([]string, 0, len(catalog)+1)
	for _, e := range catalog {
		ids = append(ids, e.id)
	}
	return append(ids, Custom)
}

// Known reports whether id is a catalog theme or custom.
func Known(id string) bool {
	if id == Custom {
		return true
	}
	_, ok := index[id]
	return ok
}

// Resolve returns the role map for themeID. Unknown ids silently resolve
// to the default theme. For the custom theme, background and the
// primary/ring roles become var() references with literal fallbacks, and
// only the gradient endpoints that are present and valid are appended.
func Resolve(themeID string, background, button *models.Gradient) RoleMap {
	if themeID == Custom {
		return resolveCustom(background, button)
	}
	i, ok := index[themeID]
	if !ok {
		i = index[Default]
	}
	return slices.Clone(catalog[i].roles)
}

func resolveCustom(background, button *models.Gradient) RoleMap {
	roles := slices.Clone(catalog[index["dark"]].roles)
	for i := range roles {
		switch roles[i].Name {
		case "--background":
			roles[i].Value = "var(" + VarBackgroundFrom + ", " + DefaultBackgroundGradient.From + ")"
		case "--primary", "--ring":
			roles[i].Value = "var(" + VarButtonFrom + ", " + DefaultButtonGradient.From + ")"
		}
	}
	if background != nil {
		roles = appendColor(roles, VarBackgroundFrom, background.From)
		roles = appendColor(roles, VarBackgroundTo, background.To)
	}
	if button != nil {
		roles = appendColor(roles, VarButtonFrom, button.From)
		roles = appendColor(roles, VarButtonTo, button.To)
	}
	return roles
}

func appendColor(m RoleMap, name, value string) RoleMap {
	value = strings.TrimSpace(value)
	if !ValidColor(value) {
		return m
	}
	return append(m, Var{Name: name, Value: value})
}

var (
	hexColor  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColor = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla|oklch)\([0-9.,%/ a-z-]+\)$`)
	namedTone = regexp.MustCompile(`^[a-zA-Z]{3,20}$`)
)

// ValidColor accepts hex, rgb/hsl/oklch functions and bare color keywords.
// Anything that could break out of a declaration is rejected.
func ValidColor(s string) bool {
	if s == "" {
		return false
	}
	return hexColor.MatchString(s) || funcColor.MatchString(s) || namedTone.MatchString(s)
}
