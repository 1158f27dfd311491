package render

import (
	"bytes"
	"encoding/base64"
	"html/template"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/skip2/go-qrcode"
	"github.com/yuin/goldmark"
)

var (
	bioMarkdown = goldmark.New()
	bioPolicy   = newBioPolicy()
)

func newBioPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "code", "del")
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Bio renders the owner's bio as a small markdown subset. Raw HTML is
// stripped.
func Bio(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := bioMarkdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(bioPolicy.SanitizeBytes(buf.Bytes()))
}

// QRCode returns a PNG data URL for content, or "" if encoding fails.
func QRCode(content string) template.URL {
	if content == "" {
		return ""
	}
	png, err := qrcode.Encode(content, qrcode.Medium, 192)
	if err != nil {
		slog.Warn("Failed to generate QR code", "error", err)
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}
