package models

import (
	"html/template"
	"time"
)

type ButtonStyle string

const (
	ButtonSolid    ButtonStyle = "solid"
	ButtonGradient ButtonStyle = "gradient"
)

// ParseButtonStyle maps anything other than "gradient" to solid.
func ParseButtonStyle(s string) ButtonStyle {
	if ButtonStyle(s) == ButtonGradient {
		return ButtonGradient
	}
	return ButtonSolid
}

// Gradient is a two-stop color pair. Either stop may be empty.
type Gradient struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

func (g *Gradient) IsZero() bool {
	return g == nil || (g.From == "" && g.To == "")
}

// BotConfig is the owner-supplied chat widget embed. Script may arrive
// HTML-entity escaped.
type BotConfig struct {
	Script   string `json:"script"`
	AutoOpen bool   `json:"autoOpen"`
}

type Profile struct {
	ID                 string      `json:"id"`
	Username           string      `json:"username"`
	DisplayName        string      `json:"displayName"`
	Bio                string      `json:"bio"`
	AvatarURL          string      `json:"avatarUrl,omitempty"`
	Theme              string      `json:"theme"`
	ButtonStyle        ButtonStyle `json:"buttonStyle"`
	AnimatedBackground bool        `json:"animatedBackground"`
	BackgroundGradient *Gradient   `json:"backgroundGradient,omitempty"`
	ButtonGradient     *Gradient   `json:"buttonGradient,omitempty"`
	Bot                *BotConfig  `json:"bot,omitempty"`
	PasswordHash       string      `json:"-"`
}

type Link struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Order     int        `json:"order"`
	Active    bool       `json:"active"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Clicks    int64      `json:"clicks"`
	IsSocial  bool       `json:"isSocial"`
	IsSupport bool       `json:"isSupport"`
}

// Snapshot is everything a render pass reads for one profile.
type Snapshot struct {
	Profile Profile `json:"profile"`
	Links   []Link  `json:"links"`
}

// Appearance is the owner-editable subset of a profile that drives theming.
type Appearance struct {
	DisplayName        string
	Bio                string
	AvatarURL          string
	Theme              string
	ButtonStyle        ButtonStyle
	AnimatedBackground bool
	BackgroundGradient *Gradient
	ButtonGradient     *Gradient
	Bot                *BotConfig
}

type AdminPageData struct {
	Profile Profile
	Links   []Link
	Themes  []string
	Message string
	Error   string
}

type IndexPageData struct {
	Version string
}

// ProfilePageData is the host page around a profile's sandboxed frame.
type ProfilePageData struct {
	Title          string
	Username       string
	SrcDoc         string
	Sandbox        string
	HostConfig     template.JS
	RefreshSeconds int
}

type ErrorPageData struct {
	Status int
	Text   string
}
