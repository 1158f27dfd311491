// Package render turns a profile snapshot into the structural public page.
// Everything here is a pure function of its inputs: no clock, no network,
// no shared state.
package render

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alexraskin/linkflow/internal/links"
	"github.com/alexraskin/linkflow/internal/models"
	"github.com/alexraskin/linkflow/internal/theme"
)

// Render builds the Document for profile from its classified links and the
// resolved theme roles.
func Render(profile models.Profile, classified links.Classified, roles theme.RoleMap) Document {
	b := &builder{}

	themeID := profile.Theme
	if !theme.Known(themeID) {
		themeID = theme.Default
	}

	doc := Document{
		Title:         pageTitle(profile),
		Variables:     roles,
		ThemeID:       themeID,
		BackgroundCSS: theme.BackgroundCSS(themeID, profile.AnimatedBackground),
		ButtonCSS:     theme.ButtonCSS(themeID, profile.ButtonStyle),
		Avatar:        Avatar{URL: profile.AvatarURL},
		Header: Header{
			DisplayName: profile.DisplayName,
			Username:    profile.Username,
			Bio:         Bio(profile.Bio),
		},
	}
	doc.BodyClass = "theme-" + themeID
	if profile.AnimatedBackground {
		doc.BodyClass += " animated-bg"
	}
	if doc.Avatar.URL == "" {
		doc.Avatar.Initials = Initials(profile.DisplayName)
		if doc.Avatar.Initials == "" {
			doc.Avatar.Initials = Initials(profile.Username)
		}
	}

	for _, l := range classified.Social {
		icon, ok := SocialIcon(l.Title)
		if !ok {
			continue
		}
		id := b.track(l)
		doc.Socials = append(doc.Socials, Social{
			ElementID: id,
			Platform:  strings.ToLower(strings.TrimSpace(l.Title)),
			URL:       l.URL,
			Icon:      icon,
		})
	}

	for _, l := range classified.Regular {
		doc.Buttons = append(doc.Buttons, Button{
			ElementID: b.track(l),
			LinkID:    l.ID,
			Title:     l.Title,
			URL:       l.URL,
		})
	}

	if slots := classified.Slots; slots.Any() {
		s := &Support{}
		if c := slots.Coffee; c != nil {
			s.Coffee = &Button{ElementID: b.track(*c), LinkID: c.ID, Title: c.Title, URL: c.URL}
		}
		if e := slots.ETransfer; e != nil {
			email := StripMailto(e.URL)
			s.ETransfer = &CopyItem{ElementID: b.copy(*e, email), LinkID: e.ID, Label: e.Title, Value: email}
		}
		for _, c := range slots.Crypto() {
			address := strings.TrimSpace(c.URL)
			s.Crypto = append(s.Crypto, CryptoLog{
				CopyItem: CopyItem{ElementID: b.copy(*c, address), LinkID: c.ID, Label: c.Title, Value: address},
				Display:  TruncateAddress(address),
				QRCode:   QRCode(address),
			})
		}
		doc.Support = s
	}

	doc.Bindings = b.bindings
	return doc
}

type builder struct {
	n        int
	bindings []Binding
}

func (b *builder) next() string {
	b.n++
	return fmt.Sprintf("lf-%d", b.n)
}

func (b *builder) track(l models.Link) string {
	id := b.next()
	b.bindings = append(b.bindings, Binding{ElementID: id, Kind: BindTrack, LinkID: l.ID})
	return id
}

func (b *builder) copy(l models.Link, text string) string {
	id := b.next()
	b.bindings = append(b.bindings, Binding{ElementID: id, Kind: BindCopy, LinkID: l.ID, Text: text})
	return id
}

func pageTitle(p models.Profile) string {
	name := strings.TrimSpace(p.DisplayName)
	if name == "" {
		name = "@" + p.Username
	}
	return name + " | LinkFlow"
}

// Initials takes the first letter of every whitespace-separated token,
// uppercased.
func Initials(name string) string {
	var sb strings.Builder
	for _, field := range strings.Fields(name) {
		for _, r := range field {
			sb.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	return sb.String()
}

// StripMailto removes a leading mailto: scheme and any query string.
func StripMailto(u string) string {
	u = strings.TrimSpace(u)
	if len(u) >= 7 && strings.EqualFold(u[:7], "mailto:") {
		u = u[7:]
	}
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	return u
}

// TruncateAddress shortens long wallet addresses to head...tail.
func TruncateAddress(addr string) string {
	r := []rune(addr)
	if len(r) <= 14 {
		return addr
	}
	return string(r[:6]) + "..." + string(r[len(r)-4:])
}
