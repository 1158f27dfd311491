// Package sandbox serializes a rendered Document into the self-contained
// payload of a sandboxed iframe, wiring its event bindings and sequencing
// the owner's chat widget scripts.
package sandbox

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/alexraskin/linkflow/internal/bridge"
	"github.com/alexraskin/linkflow/internal/models"
	"github.com/alexraskin/linkflow/internal/render"
)

// Attributes is the iframe sandbox value. Scripts may run and popups may
// open, but without allow-same-origin the frame gets an opaque origin and
// no access to host storage or APIs.
const Attributes = "allow-scripts allow-popups allow-popups-to-escape-sandbox allow-forms"

const (
	DefaultAutoOpenInterval    = 200 * time.Millisecond
	DefaultAutoOpenMaxAttempts = 150
)

var (
	//go:embed assets/frame.html
	frameTemplate string
	//go:embed assets/runtime.js
	runtimeJS string
	//go:embed assets/base.css
	baseCSS string
)

type Config struct {
	// WidgetStylesheet and WidgetScript are the chat widget framework
	// loader. They are only emitted when the profile has a bot embed.
	WidgetStylesheet string
	WidgetScript     string
	// HostOrigin is the postMessage target origin. Empty means "*".
	HostOrigin          string
	AutoOpenInterval    time.Duration
	AutoOpenMaxAttempts int
}

// Beacon is where track bindings report clicks, and the visit token that
// scopes them to one profile.
type Beacon struct {
	URL   string
	Token string
}

// IsolatedContext is a mounted document ready to be placed in an iframe.
type IsolatedContext struct {
	SrcDoc  string
	Sandbox string
	Steps   []Step
}

type Host struct {
	cfg  Config
	tmpl *template.Template
}

func NewHost(cfg Config) (*Host, error) {
	if cfg.AutoOpenInterval <= 0 {
		cfg.AutoOpenInterval = DefaultAutoOpenInterval
	}
	if cfg.AutoOpenMaxAttempts == 0 {
		cfg.AutoOpenMaxAttempts = DefaultAutoOpenMaxAttempts
	}
	tmpl, err := template.New("sandbox").Parse(frameTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing frame template: %w", err)
	}
	return &Host{cfg: cfg, tmpl: tmpl}, nil
}

type frameData struct {
	Doc              render.Document
	WidgetStylesheet string
	Style            template.CSS
	Config           template.JS
	Runtime          template.JS
	EmbedMarkup      template.HTML
}

type runtimeConfig struct {
	Bindings     map[string]render.Binding `json:"bindings"`
	Track        trackConfig               `json:"track"`
	Steps        []Step                    `json:"steps"`
	AutoOpen     autoOpenConfig            `json:"autoOpen"`
	MessageType  string                    `json:"messageType"`
	TargetOrigin string                    `json:"targetOrigin"`
}

type trackConfig struct {
	URL   string `json:"url"`
	Token string `json:"token,omitempty"`
}

type autoOpenConfig struct {
	Enabled     bool  `json:"enabled"`
	Interval    int64 `json:"interval"`
	MaxAttempts int   `json:"maxAttempts"`
}

// Mount serializes doc with its theme variables, base stylesheet, binding
// table and, when bot has a script, the widget loader followed by the
// owner's embed steps.
func (h *Host) Mount(doc render.Document, bot *models.BotConfig, beacon Beacon) (IsolatedContext, error) {
	var (
		steps  []Step
		markup template.HTML
		sheet  string
	)
	if bot != nil && strings.TrimSpace(bot.Script) != "" {
		embed, err := ParseEmbed(bot.Script)
		if err != nil {
			return IsolatedContext{}, err
		}
		if h.cfg.WidgetScript != "" {
			steps = append(steps, Step{Kind: StepExternal, Src: h.cfg.WidgetScript})
		}
		steps = append(steps, embed.Steps...)
		markup = embed.Markup
		sheet = h.cfg.WidgetStylesheet
	}

	bindings := make(map[string]render.Binding, len(doc.Bindings))
	for _, b := range doc.Bindings {
		bindings[b.ElementID] = b
	}
	target := h.cfg.HostOrigin
	if target == "" {
		target = "*"
	}
	rc := runtimeConfig{
		Bindings: bindings,
		Track:    trackConfig{URL: beacon.URL, Token: beacon.Token},
		Steps:    steps,
		AutoOpen: autoOpenConfig{
			Enabled:     bot != nil && bot.AutoOpen && len(steps) > 0,
			Interval:    h.cfg.AutoOpenInterval.Milliseconds(),
			MaxAttempts: h.cfg.AutoOpenMaxAttempts,
		},
		MessageType:  bridge.TypeCopyToClipboard,
		TargetOrigin: target,
	}
	if rc.Steps == nil {
		rc.Steps = []Step{}
	}
	cfgJSON, err := json.Marshal(rc)
	if err != nil {
		return IsolatedContext{}, fmt.Errorf("encoding frame config: %w", err)
	}

	var buf bytes.Buffer
	err = h.tmpl.ExecuteTemplate(&buf, "frame", frameData{
		Doc:              doc,
		WidgetStylesheet: sheet,
		Style:            Stylesheet(doc),
		Config:           template.JS(cfgJSON),
		Runtime:          template.JS(runtimeJS),
		EmbedMarkup:      markup,
	})
	if err != nil {
		return IsolatedContext{}, fmt.Errorf("executing frame template: %w", err)
	}

	return IsolatedContext{
		SrcDoc:  buf.String(),
		Sandbox: Attributes,
		Steps:   steps,
	}, nil
}

// Stylesheet is the frame's complete inline stylesheet: the fixed base
// rules, the theme variables on :root, and the page background and button
// treatments.
func Stylesheet(doc render.Document) template.CSS {
	var sb strings.Builder
	sb.WriteString(baseCSS)
	sb.WriteString(":root{")
	for _, v := range doc.Variables {
		if !safeDeclaration(v.Name) || !safeDeclaration(v.Value) {
			continue
		}
		sb.WriteString(v.Name)
		sb.WriteString(":")
		sb.WriteString(v.Value)
		sb.WriteString(";")
	}
	sb.WriteString("}\n")
	if safeDeclaration(strings.ReplaceAll(doc.BackgroundCSS, ";", "")) {
		sb.WriteString("body{" + doc.BackgroundCSS + "}\n")
	}
	if safeDeclaration(strings.ReplaceAll(doc.ButtonCSS, ";", "")) {
		sb.WriteString(".lf-button{" + doc.ButtonCSS + "}\n")
	}
	return template.CSS(sb.String())
}

func safeDeclaration(s string) bool {
	return !strings.ContainsAny(s, ";{}<>\\\"'")
}
