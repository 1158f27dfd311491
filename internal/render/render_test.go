package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/alexraskin/linkflow/internal/links"
	"github.com/alexraskin/linkflow/internal/models"
	"github.com/alexraskin/linkflow/internal/theme"
)

func testProfile() models.Profile {
	return models.Profile{
		ID:          "p1",
		Username:    "jane",
		DisplayName: "Jane Doe",
		Theme:       "dracula",
	}
}

func renderLinks(p models.Profile, ls []models.Link) Document {
	return Render(p, links.Classify(ls), theme.Resolve(p.Theme, p.BackgroundGradient, p.ButtonGradient))
}

func TestRenderInitialsWithoutAvatar(t *testing.T) {
	doc := renderLinks(testProfile(), nil)
	require.Equal(t, "JD", doc.Avatar.Initials)
	require.Empty(t, doc.Avatar.URL)
	require.Equal(t, "Jane Doe | LinkFlow", doc.Title)
	require.Nil(t, doc.Support)
	require.Empty(t, doc.Bindings)
}

func TestRenderAvatarSkipsInitials(t *testing.T) {
	p := testProfile()
	p.AvatarURL = "https://cdn.example.com/jane.png"
	doc := renderLinks(p, nil)
	require.Equal(t, p.AvatarURL, doc.Avatar.URL)
	require.Empty(t, doc.Avatar.Initials)
}

func TestRenderInitialsFallBackToUsername(t *testing.T) {
	p := testProfile()
	p.DisplayName = "  "
	doc := renderLinks(p, nil)
	require.Equal(t, "J", doc.Avatar.Initials)
	require.Equal(t, "@jane | LinkFlow", doc.Title)
}

func TestRenderButtonsInOrderWithTrackBindings(t *testing.T) {
	doc := renderLinks(testProfile(), []models.Link{
		{ID: "a", Title: "Blog", URL: "https://blog.example", Active: true},
		{ID: "b", Title: "Shop", URL: "https://shop.example", Active: true},
	})
	require.Len(t, doc.Buttons, 2)
	require.Equal(t, "Blog", doc.Buttons[0].Title)
	require.Equal(t, "Shop", doc.Buttons[1].Title)

	for _, btn := range doc.Buttons {
		b, ok := doc.Binding(btn.ElementID)
		require.True(t, ok)
		require.Equal(t, BindTrack, b.Kind)
		require.Equal(t, btn.LinkID, b.LinkID)
	}
}

func TestRenderSocialNeedsKnownIcon(t *testing.T) {
	doc := renderLinks(testProfile(), []models.Link{
		{ID: "gh", Title: "GitHub", URL: "https://github.com/jane", IsSocial: true},
		{ID: "mx", Title: "Myspace", URL: "https://myspace.com/jane", IsSocial: true},
	})
	require.Len(t, doc.Socials, 1)
	require.Equal(t, "github", doc.Socials[0].Platform)
	require.NotEmpty(t, doc.Socials[0].Icon)
	require.Empty(t, doc.Buttons)
}

func TestRenderETransferCopiesBareAddress(t *testing.T) {
	doc := renderLinks(testProfile(), []models.Link{
		{ID: "et", Title: "E-Transfer", URL: "mailto:jane@example.com", IsSupport: true},
	})
	require.NotNil(t, doc.Support)
	require.NotNil(t, doc.Support.ETransfer)
	require.Equal(t, "jane@example.com", doc.Support.ETransfer.Value)

	b, ok := doc.Binding(doc.Support.ETransfer.ElementID)
	require.True(t, ok)
	require.Equal(t, BindCopy, b.Kind)
	require.Equal(t, "jane@example.com", b.Text)
	require.Equal(t, "et", b.LinkID)
}

func TestRenderCryptoLogs(t *testing.T) {
	addr := "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"
	doc := renderLinks(testProfile(), []models.Link{
		{ID: "sol", Title: "SOL", URL: "So1anaAddr", IsSupport: true},
		{ID: "btc", Title: "BTC", URL: addr, IsSupport: true},
		{ID: "x", Title: "Patreon", URL: "https://patreon.com/jane", IsSupport: true},
	})
	require.NotNil(t, doc.Support)
	require.Nil(t, doc.Support.Coffee)
	require.Len(t, doc.Support.Crypto, 2)
	require.Equal(t, "BTC", doc.Support.Crypto[0].Label)
	require.Equal(t, "bc1qxy...0wlh", doc.Support.Crypto[0].Display)
	require.True(t, strings.HasPrefix(string(doc.Support.Crypto[0].QRCode), "data:image/png;base64,"))
	require.Equal(t, "SOL", doc.Support.Crypto[1].Label)
	require.Equal(t, "So1anaAddr", doc.Support.Crypto[1].Display)

	b, ok := doc.Binding(doc.Support.Crypto[0].ElementID)
	require.True(t, ok)
	require.Equal(t, addr, b.Text)
}

func TestRenderCustomTheme(t *testing.T) {
	p := testProfile()
	p.Theme = theme.Custom
	p.ButtonStyle = models.ButtonGradient
	p.AnimatedBackground = true
	p.BackgroundGradient = &models.Gradient{From: "#111111", To: "#222222"}

	doc := renderLinks(p, nil)
	require.Equal(t, "theme-custom animated-bg", doc.BodyClass)
	v, ok := doc.Variables.Get(theme.VarBackgroundFrom)
	require.True(t, ok)
	require.Equal(t, "#111111", v)
	_, ok = doc.Variables.Get(theme.VarButtonFrom)
	require.False(t, ok)
}

func TestRenderUnknownThemeFallsBack(t *testing.T) {
	p := testProfile()
	p.Theme = "no-such-theme"
	doc := renderLinks(p, nil)
	require.Equal(t, theme.Default, doc.ThemeID)
	require.Equal(t, "theme-light", doc.BodyClass)
}

func TestRenderBioSanitized(t *testing.T) {
	p := testProfile()
	p.Bio = "**hi** <script>alert(1)</script>"
	doc := renderLinks(p, nil)
	require.Contains(t, string(doc.Header.Bio), "<strong>hi</strong>")
	require.NotContains(t, string(doc.Header.Bio), "<script")
}

func TestRenderIsDeterministic(t *testing.T) {
	ls := []models.Link{
		{ID: "a", Title: "Blog", URL: "https://blog.example"},
		{ID: "gh", Title: "github", URL: "https://github.com/jane", IsSocial: true},
		{ID: "c", Title: "Buy Me A Coffee", URL: "https://ko-fi.com/jane", IsSupport: true},
	}
	require.Equal(t, renderLinks(testProfile(), ls), renderLinks(testProfile(), ls))
}

func TestHelpers(t *testing.T) {
	require.Equal(t, "jane@example.com", StripMailto("MAILTO:jane@example.com?subject=hi"))
	require.Equal(t, "short", TruncateAddress("short"))
	require.Equal(t, "", Initials(""))
	require.Equal(t, "AB", Initials("ada  bob"))
}

func TestTruncateAddressKeepsRunesWhole(t *testing.T) {
	require.Equal(t, "bc1qxy...0wlh", TruncateAddress("bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"))

	got := TruncateAddress("ŁódźŁódź-wallet-ŻółćŻółć")
	require.True(t, utf8.ValidString(got), "got %q", got)
	require.Equal(t, "ŁódźŁó...Żółć", got)

	// Fourteen runes but more than fourteen bytes: left alone.
	require.Equal(t, "ééééééééééééé1", TruncateAddress("ééééééééééééé1"))
}
