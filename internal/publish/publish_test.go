package publish

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexraskin/linkflow/internal/models"
	"github.com/alexraskin/linkflow/internal/sandbox"
)

type fakeIssuer struct {
	err    error
	issued []string
}

func (f *fakeIssuer) Issue(userID string) (string, error) {
	f.issued = append(f.issued, userID)
	return "token-" + userID, f.err
}

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestPublisher(t *testing.T, issuer TokenIssuer) *Publisher {
	t.Helper()
	host, err := sandbox.NewHost(sandbox.Config{WidgetScript: "https://cdn.example.com/inject.js"})
	require.NoError(t, err)
	p := New(host, issuer, "/api/track")
	p.now = func() time.Time { return now }
	return p
}

func ptr(t time.Time) *time.Time { return &t }

func TestPublishFiltersScheduledLinks(t *testing.T) {
	issuer := &fakeIssuer{}
	p := newTestPublisher(t, issuer)

	page, err := p.Publish(models.Snapshot{
		Profile: models.Profile{ID: "p1", Username: "jane", DisplayName: "Jane Doe"},
		Links: []models.Link{
			{ID: "live", Title: "Live", URL: "https://a.example", Active: true},
			{ID: "later", Title: "Later", URL: "https://b.example", Active: true, StartDate: ptr(now.Add(time.Hour))},
			{ID: "gone", Title: "Gone", URL: "https://c.example", Active: true, EndDate: ptr(now.Add(-time.Hour))},
			{ID: "off", Title: "Off", URL: "https://d.example"},
		},
	})
	require.NoError(t, err)
	require.Len(t, page.Document.Buttons, 1)
	require.Equal(t, "live", page.Document.Buttons[0].LinkID)
	require.Equal(t, time.Hour, page.RefreshAfter)
	require.Equal(t, []string{"p1"}, issuer.issued)
	require.Contains(t, page.Frame.SrcDoc, "token-p1")
	require.Equal(t, sandbox.Attributes, page.Frame.Sandbox)
}

func TestPublishNothingScheduled(t *testing.T) {
	p := newTestPublisher(t, nil)
	page, err := p.Publish(models.Snapshot{Profile: models.Profile{ID: "p1", Username: "jane"}})
	require.NoError(t, err)
	require.Zero(t, page.RefreshAfter)
	require.Empty(t, page.Frame.Steps)
}

func TestPublishWithBot(t *testing.T) {
	p := newTestPublisher(t, nil)
	page, err := p.Publish(models.Snapshot{Profile: models.Profile{
		ID:  "p1",
		Bot: &models.BotConfig{Script: "window.init();", AutoOpen: true},
	}})
	require.NoError(t, err)
	require.Len(t, page.Frame.Steps, 2)
}

func TestPublishTokenFailure(t *testing.T) {
	p := newTestPublisher(t, &fakeIssuer{err: errors.New("boom")})
	_, err := p.Publish(models.Snapshot{Profile: models.Profile{ID: "p1"}})
	require.Error(t, err)
}
