package theme

import (
	"fmt"

	"github.com/alexraskin/linkflow/internal/models"
)

// solidOverrides are hand-tuned button treatments for themes whose primary
// role reads poorly as a flat fill. They only apply in solid mode.
var solidOverrides = map[string]string{
	"neon":      "background: transparent; color: var(--primary); border: 2px solid var(--primary); box-shadow: 0 0 12px var(--primary);",
	"cyberpunk": "background: var(--accent); color: var(--background); border: 2px solid var(--primary); box-shadow: 4px 4px 0 var(--primary);",
	"retro":     "background: var(--card); color: var(--foreground); border: 2px solid var(--foreground); box-shadow: 4px 4px 0 var(--foreground);",
	"gold":      "background: linear-gradient(180deg, hsl(45 93% 62%), hsl(38 92% 45%)); color: hsl(30 40% 10%); border: 1px solid hsl(38 92% 35%);",
	"galaxy":    "background: rgba(255, 255, 255, 0.08); color: var(--foreground); border: 1px solid rgba(255, 255, 255, 0.2); backdrop-filter: blur(8px);",
	"aurora":    "background: rgba(255, 255, 255, 0.1); color: var(--foreground); border: 1px solid var(--accent); backdrop-filter: blur(8px);",
	"pastel":    "background: var(--secondary); color: var(--secondary-foreground); border: 1px solid var(--border);",
	"dracula":   "background: var(--card); color: var(--accent); border: 1px solid var(--accent);",
	"monokai":   "background: var(--card); color: var(--primary); border: 1px solid var(--border);",
}

// HasSolidOverride reports whether themeID has a hand-tuned solid button.
func HasSolidOverride(themeID string) bool {
	_, ok := solidOverrides[themeID]
	return ok
}

// ButtonCSS returns the inline declarations for link buttons given the
// theme and the profile's button style.
func ButtonCSS(themeID string, style models.ButtonStyle) string {
	if themeID == Custom {
		if style == models.ButtonGradient {
			return fmt.Sprintf("background: linear-gradient(135deg, var(%s, %s), var(%s, %s)); color: #ffffff; border: none;",
				VarButtonFrom, DefaultButtonGradient.From, VarButtonTo, DefaultButtonGradient.To)
		}
		return fmt.Sprintf("background: var(%s, %s); color: #ffffff; border: none;", VarButtonFrom, DefaultButtonGradient.From)
	}
	if !Known(themeID) {
		themeID = Default
	}
	if style == models.ButtonGradient {
		return "background: linear-gradient(135deg, var(--primary), var(--accent)); color: var(--primary-foreground); border: none;"
	}
	if css, ok := solidOverrides[themeID]; ok {
		return css
	}
	return "background: var(--primary); color: var(--primary-foreground); border: 1px solid var(--border);"
}

// BackgroundCSS returns the page background declarations.
func BackgroundCSS(themeID string, animated bool) string {
	bg := "background: var(--background);"
	if themeID == Custom {
		bg = fmt.Sprintf("background: linear-gradient(135deg, var(%s, %s), var(%s, %s));",
			VarBackgroundFrom, DefaultBackgroundGradient.From, VarBackgroundTo, DefaultBackgroundGradient.To)
	} else if animated {
		bg = "background: linear-gradient(-45deg, var(--background), var(--secondary), var(--accent), var(--background));"
	}
	if animated {
		bg += " background-size: 400% 400%; animation: lf-gradient 15s ease infinite;"
	}
	return bg
}
