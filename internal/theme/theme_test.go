package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexraskin/linkflow/internal/models"
)

func TestCatalogSize(t *testing.T) {
	ids := IDs()
	require.GreaterOrEqual(t, len(ids), 41)
	require.Equal(t, Custom, ids[len(ids)-1])
}

func TestEveryThemeDefinesAllRoles(t *testing.T) {
	for _, id := range IDs() {
		if id == Custom {
			continue
		}
		roles := Resolve(id, nil, nil)
		require.Len(t, roles, len(Roles), id)
		for i, role := range Roles {
			require.Equal(t, Property(role), roles[i].Name, id)
			require.True(t, ValidColor(roles[i].Value), "%s %s=%q", id, role, roles[i].Value)
		}
	}
}

func TestResolveUnknownFallsBackToDefault(t *testing.T) {
	want := Resolve(Default, nil, nil)
	for _, id := range []string{"", "nope", "LIGHT", "custom ", "Dark"} {
		require.Equal(t, want, Resolve(id, nil, nil), "id %q", id)
	}
	// idempotent
	require.Equal(t, Resolve("nope", nil, nil), Resolve("nope", nil, nil))
}

func TestResolveReturnsCopy(t *testing.T) {
	a := Resolve("ocean", nil, nil)
	a[0].Value = "red"
	b := Resolve("ocean", nil, nil)
	require.NotEqual(t, "red", b[0].Value)
}

func TestResolveCustomBackgroundOnly(t *testing.T) {
	roles := Resolve(Custom, &models.Gradient{From: "#111111", To: "#222222"}, nil)

	from, ok := roles.Get(VarBackgroundFrom)
	require.True(t, ok)
	require.Equal(t, "#111111", from)
	to, ok := roles.Get(VarBackgroundTo)
	require.True(t, ok)
	require.Equal(t, "#222222", to)

	_, ok = roles.Get(VarButtonFrom)
	require.False(t, ok)
	_, ok = roles.Get(VarButtonTo)
	require.False(t, ok)

	bg, _ := roles.Get("--background")
	require.Equal(t, "var(--custom-bg-from, #0f172a)", bg)
	primary, _ := roles.Get("--primary")
	require.Equal(t, "var(--custom-btn-from, #8b5cf6)", primary)
	ring, _ := roles.Get("--ring")
	require.Equal(t, primary, ring)
}

func TestResolveCustomOmitsMissingAndInvalidEndpoints(t *testing.T) {
	roles := Resolve(Custom, &models.Gradient{From: "#abc"}, &models.Gradient{From: "red;}body{x:y", To: "hsl(10 20% 30%)"})

	_, ok := roles.Get(VarBackgroundTo)
	require.False(t, ok)
	_, ok = roles.Get(VarButtonFrom)
	require.False(t, ok)
	to, ok := roles.Get(VarButtonTo)
	require.True(t, ok)
	require.Equal(t, "hsl(10 20% 30%)", to)
}

func TestValidColor(t *testing.T) {
	for _, c := range []string{"#fff", "#112233", "#11223344", "rgb(1, 2, 3)", "hsl(0 0% 100%)", "rebeccapurple"} {
		require.True(t, ValidColor(c), c)
	}
	for _, c := range []string{"", "#12", "url(x)", "red;", "expression(alert(1))", "</style>"} {
		require.False(t, ValidColor(c), c)
	}
}

func TestButtonCSS(t *testing.T) {
	tests := []struct {
		name  string
		theme string
		style models.ButtonStyle
		want  string
	}{
		{"generic solid", "ocean", models.ButtonSolid, "background: var(--primary);"},
		{"generic gradient", "ocean", models.ButtonGradient, "linear-gradient(135deg, var(--primary), var(--accent))"},
		{"override solid", "neon", models.ButtonSolid, "box-shadow: 0 0 12px var(--primary)"},
		{"override ignored in gradient", "neon", models.ButtonGradient, "linear-gradient(135deg, var(--primary), var(--accent))"},
		{"custom gradient", Custom, models.ButtonGradient, "var(--custom-btn-from, #8b5cf6), var(--custom-btn-to, #ec4899)"},
		{"custom solid", Custom, models.ButtonSolid, "background: var(--custom-btn-from, #8b5cf6);"},
		{"unknown theme", "bogus", models.ButtonSolid, "background: var(--primary);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Contains(t, ButtonCSS(tt.theme, tt.style), tt.want)
		})
	}
}

func TestBackgroundCSS(t *testing.T) {
	require.Equal(t, "background: var(--background);", BackgroundCSS("light", false))
	require.Contains(t, BackgroundCSS(Custom, false), "var(--custom-bg-to, #1e293b)")
	animated := BackgroundCSS("ocean", true)
	require.True(t, strings.Contains(animated, "animation: lf-gradient"))
}
