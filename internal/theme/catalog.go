package theme

import "fmt"

type entry struct {
	id    string
	roles RoleMap
}

// palette is the compact seed a catalog theme is expanded from. Hues are
// degrees; sat is the chroma of the brand roles.
type palette struct {
	id     string
	hue    int
	sat    int
	dark   bool
	accent int // accent hue; -1 reuses hue
}

var seeds = []palette{
	{"midnight", 230, 60, true, 260},
	{"forest", 140, 45, true, 90},
	{"ocean", 200, 75, true, 180},
	{"sunset", 20, 85, false, 340},
	{"rose", 346, 77, false, -1},
	{"lavender", 265, 60, false, 290},
	{"mint", 160, 55, false, 180},
	{"coffee", 25, 35, true, 35},
	{"slate", 215, 20, false, -1},
	{"zinc", 240, 6, false, -1},
	{"stone", 25, 6, false, -1},
	{"neutral", 0, 0, false, -1},
	{"red", 0, 72, false, -1},
	{"orange", 25, 95, false, -1},
	{"amber", 38, 92, false, -1},
	{"yellow", 48, 96, false, -1},
	{"lime", 84, 81, false, -1},
	{"green", 142, 71, false, -1},
	{"emerald", 160, 84, false, -1},
	{"teal", 173, 80, false, -1},
	{"cyan", 189, 94, false, -1},
	{"sky", 199, 89, false, -1},
	{"blue", 221, 83, false, -1},
	{"indigo", 239, 84, false, -1},
	{"violet", 262, 83, false, -1},
	{"purple", 271, 81, false, -1},
	{"fuchsia", 292, 84, false, -1},
	{"pink", 330, 81, false, -1},
	{"crimson", 348, 83, true, 0},
	{"gold", 45, 93, true, 30},
	{"nord", 213, 32, true, 193},
	{"dracula", 265, 89, true, 326},
	{"solarized-light", 44, 87, false, 192},
	{"solarized-dark", 192, 100, true, 44},
	{"monokai", 70, 80, true, 326},
	{"cyberpunk", 300, 100, true, 180},
	{"retro", 30, 70, false, 190},
	{"pastel", 280, 45, false, 170},
	{"neon", 120, 100, true, 300},
	{"aurora", 170, 80, true, 280},
	{"galaxy", 255, 70, true, 310},
	{"sakura", 340, 60, false, 10},
	{"desert", 35, 55, false, 15},
	{"arctic", 195, 60, false, 220},
}

var (
	catalog []entry
	index   map[string]int
)

func init() {
	catalog = append(catalog,
		entry{id: "light", roles: RoleMap{
			{"--background", "hsl(0 0% 100%)"},
			{"--foreground", "hsl(222.2 84% 4.9%)"},
			{"--card", "hsl(0 0% 100%)"},
			{"--primary", "hsl(222.2 47.4% 11.2%)"},
			{"--primary-foreground", "hsl(210 40% 98%)"},
			{"--secondary", "hsl(210 40% 96.1%)"},
			{"--secondary-foreground", "hsl(222.2 47.4% 11.2%)"},
			{"--muted", "hsl(210 40% 96.1%)"},
			{"--muted-foreground", "hsl(215.4 16.3% 46.9%)"},
			{"--accent", "hsl(210 40% 96.1%)"},
			{"--accent-foreground", "hsl(222.2 47.4% 11.2%)"},
			{"--border", "hsl(214.3 31.8% 91.4%)"},
			{"--input", "hsl(214.3 31.8% 91.4%)"},
			{"--ring", "hsl(222.2 84% 4.9%)"},
		}},
		entry{id: "dark", roles: RoleMap{
			{"--background", "hsl(222.2 84% 4.9%)"},
			{"--foreground", "hsl(210 40% 98%)"},
			{"--card", "hsl(222.2 84% 4.9%)"},
			{"--primary", "hsl(210 40% 98%)"},
			{"--primary-foreground", "hsl(222.2 47.4% 11.2%)"},
			{"--secondary", "hsl(217.2 32.6% 17.5%)"},
			{"--secondary-foreground", "hsl(210 40% 98%)"},
			{"--muted", "hsl(217.2 32.6% 17.5%)"},
			{"--muted-foreground", "hsl(215 20.2% 65.1%)"},
			{"--accent", "hsl(217.2 32.6% 17.5%)"},
			{"--accent-foreground", "hsl(210 40% 98%)"},
			{"--border", "hsl(217.2 32.6% 17.5%)"},
			{"--input", "hsl(217.2 32.6% 17.5%)"},
			{"--ring", "hsl(212.7 26.8% 83.9%)"},
		}},
	)
	for _, p := range seeds {
		catalog = append(catalog, entry{id: p.id, roles: p.expand()})
	}

	index = make(map[string]int, len(catalog))
	for i, e := range catalog {
		if _, dup := index[e.id]; dup {
			panic("theme: duplicate catalog id " + e.id)
		}
		if len(e.roles) != len(Roles) {
			panic("theme: incomplete role map for " + e.id)
		}
		index[e.id] = i
	}
}

func hsl(h, s, l int) string {
	return fmt.Sprintf("hsl(%d %d%% %d%%)", h, s, l)
}

func (p palette) expand() RoleMap {
	accent := p.accent
	if accent < 0 {
		accent = p.hue
	}
	tint := p.sat / 4

	if p.dark {
		return RoleMap{
			{"--background", hsl(p.hue, tint+20, 7)},
			{"--foreground", hsl(p.hue, 20, 96)},
			{"--card", hsl(p.hue, tint+18, 11)},
			{"--primary", hsl(p.hue, p.sat, 60)},
			{"--primary-foreground", hsl(p.hue, tint+20, 7)},
			{"--secondary", hsl(p.hue, tint+10, 18)},
			{"--secondary-foreground", hsl(p.hue, 20, 96)},
			{"--muted", hsl(p.hue, tint+10, 16)},
			{"--muted-foreground", hsl(p.hue, 15, 68)},
			{"--accent", hsl(accent, p.sat, 55)},
			{"--accent-foreground", hsl(accent, 20, 98)},
			{"--border", hsl(p.hue, tint+10, 20)},
			{"--input", hsl(p.hue, tint+10, 20)},
			{"--ring", hsl(p.hue, p.sat, 60)},
		}
	}
	return RoleMap{
		{"--background", hsl(p.hue, tint+10, 98)},
		{"--foreground", hsl(p.hue, tint+30, 10)},
		{"--card", hsl(p.hue, tint+10, 100)},
		{"--primary", hsl(p.hue, p.sat, 45)},
		{"--primary-foreground", hsl(p.hue, 20, 98)},
		{"--secondary", hsl(p.hue, tint+10, 93)},
		{"--secondary-foreground", hsl(p.hue, tint+30, 15)},
		{"--muted", hsl(p.hue, tint+10, 94)},
		{"--muted-foreground", hsl(p.hue, 12, 45)},
		{"--accent", hsl(accent, p.sat, 50)},
		{"--accent-foreground", hsl(accent, 20, 98)},
		{"--border", hsl(p.hue, tint+10, 88)},
		{"--input", hsl(p.hue, tint+10, 88)},
		{"--ring", hsl(p.hue, p.sat, 45)},
	}
}
