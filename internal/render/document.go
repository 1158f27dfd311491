package render

import (
	"html/template"

	"github.com/alexraskin/linkflow/internal/theme"
)

// BindingKind tells the sandbox which handler an element gets.
type BindingKind string

const (
	// BindTrack counts a navigation click and lets the navigation proceed.
	BindTrack BindingKind = "track"
	// BindCopy asks the host to copy Text; the host counts the click.
	BindCopy BindingKind = "copy"
)

// Binding attaches behavior to the element with ElementID.
type Binding struct {
	ElementID string      `json:"-"`
	Kind      BindingKind `json:"kind"`
	LinkID    string      `json:"linkId,omitempty"`
	Text      string      `json:"text,omitempty"`
}

// Document is the structural public page. It is a pure function of its
// inputs and carries its event bindings with it, so serialization never
// has to patch markup after the fact.
type Document struct {
	Title         string
	Variables     theme.RoleMap
	ThemeID       string
	BodyClass     string
	BackgroundCSS string
	ButtonCSS     string
	Avatar        Avatar
	Header        Header
	Socials       []Social
	Buttons       []Button
	Support       *Support
	Bindings      []Binding
}

type Avatar struct {
	URL      string
	Initials string
}

type Header struct {
	DisplayName string
	Username    string
	Bio         template.HTML
}

type Social struct {
	ElementID string
	Platform  string
	URL       string
	Icon      template.HTML
}

type Button struct {
	ElementID string
	LinkID    string
	Title     string
	URL       string
}

type Support struct {
	Coffee    *Button
	ETransfer *CopyItem
	Crypto    []CryptoLog
}

type CopyItem struct {
	ElementID string
	LinkID    string
	Label     string
	Value     string
}

type CryptoLog struct {
	CopyItem
	Display string
	QRCode  template.URL
}

// Binding returns the binding for id, if any.
func (d Document) Binding(id string) (Binding, bool) {
	for _, b := range d.Bindings {
		if b.ElementID == id {
			return b, true
		}
	}
	return Binding{}, false
}
