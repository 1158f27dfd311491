// Package publish runs the public page pipeline for one profile snapshot:
// visibility filtering, classification, theme resolution, rendering and
// mounting into the sandboxed frame.
package publish

import (
	"fmt"
	"time"

	"github.com/alexraskin/linkflow/internal/links"
	"github.com/alexraskin/linkflow/internal/models"
	"github.com/alexraskin/linkflow/internal/render"
	"github.com/alexraskin/linkflow/internal/sandbox"
	"github.com/alexraskin/linkflow/internal/theme"
)

// TokenIssuer mints the visit token a frame reports clicks with.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type Publisher struct {
	host     *sandbox.Host
	tokens   TokenIssuer
	trackURL string
	now      func() time.Time
}

func New(host *sandbox.Host, tokens TokenIssuer, trackURL string) *Publisher {
	return &Publisher{host: host, tokens: tokens, trackURL: trackURL, now: time.Now}
}

// Page is one published render.
type Page struct {
	Document render.Document
	Frame    sandbox.IsolatedContext
	// Token is the visit token the frame and host report clicks with.
	Token string
	// RefreshAfter is how long the page stays accurate before a scheduled
	// link starts or ends. Zero means nothing is scheduled.
	RefreshAfter time.Duration
}

func (p *Publisher) Publish(snap models.Snapshot) (Page, error) {
	now := p.now()
	profile := snap.Profile

	visible := links.FilterVisible(snap.Links, now)
	doc := render.Render(profile, links.Classify(visible),
		theme.Resolve(profile.Theme, profile.BackgroundGradient, profile.ButtonGradient))

	beacon := sandbox.Beacon{URL: p.trackURL}
	if p.tokens != nil && profile.ID != "" {
		token, err := p.tokens.Issue(profile.ID)
		if err != nil {
			return Page{}, fmt.Errorf("issuing visit token: %w", err)
		}
		beacon.Token = token
	}

	frame, err := p.host.Mount(doc, profile.Bot, beacon)
	if err != nil {
		return Page{}, err
	}

	page := Page{Document: doc, Frame: frame, Token: beacon.Token}
	if next, ok := links.NextChange(snap.Links, now); ok {
		page.RefreshAfter = next.Sub(now)
	}
	return page, nil
}
