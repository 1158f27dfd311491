package sandbox

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type StepKind string

const (
	StepExternal StepKind = "external"
	StepInline   StepKind = "inline"
)

// Step is one script the frame runtime executes, strictly in order.
type Step struct {
	Kind  StepKind          `json:"kind"`
	Src   string            `json:"src,omitempty"`
	Code  string            `json:"code,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Embed is an owner's bot embed split into ordered script steps and the
// remaining non-script markup.
type Embed struct {
	Steps  []Step
	Markup template.HTML
}

// Unescape decodes an entity-escaped embed. Raw embeds pass through.
func Unescape(script string) string {
	if strings.Contains(script, "&lt;") {
		return html.UnescapeString(script)
	}
	return script
}

// ParseEmbed splits the owner's embed into script steps, in document
// order, and the leftover markup. Input with no tags at all is taken to be
// bare script source.
func ParseEmbed(script string) (Embed, error) {
	script = strings.TrimSpace(Unescape(script))
	if script == "" {
		return Embed{}, nil
	}
	if !strings.Contains(script, "<") {
		return Embed{Steps: []Step{{Kind: StepInline, Code: script}}}, nil
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(script), context)
	if err != nil {
		return Embed{}, fmt.Errorf("parsing bot embed: %w", err)
	}

	var e Embed
	var markup bytes.Buffer
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script {
			e.Steps = append(e.Steps, scriptStep(n))
			continue
		}
		e.Steps = append(e.Steps, extractScripts(n)...)
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		if err := html.Render(&markup, n); err != nil {
			return Embed{}, fmt.Errorf("rendering bot embed: %w", err)
		}
	}
	e.Markup = template.HTML(markup.String())
	return e, nil
}

// extractScripts detaches nested scripts from n and returns them in order.
func extractScripts(n *html.Node) []Step {
	var steps []Step
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Script {
				found = append(found, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	for _, s := range found {
		steps = append(steps, scriptStep(s))
		s.Parent.RemoveChild(s)
	}
	return steps
}

func scriptStep(n *html.Node) Step {
	s := Step{Kind: StepInline}
	for _, a := range n.Attr {
		switch a.Key {
		case "src":
			s.Kind = StepExternal
			s.Src = a.Val
		case "async", "defer":
			// the runtime sequences every script itself
		default:
			if s.Attrs == nil {
				s.Attrs = map[string]string{}
			}
			s.Attrs[a.Key] = a.Val
		}
	}
	if s.Kind == StepInline {
		var code strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				code.WriteString(c.Data)
			}
		}
		s.Code = strings.TrimSpace(code.String())
	}
	return s
}
