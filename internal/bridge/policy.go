package bridge

import "strings"

// OriginPolicy decides whether messages from origin are accepted.
type OriginPolicy interface {
	Allow(origin string) bool
}

type DenyAll struct{}

func (DenyAll) Allow(string) bool { return false }

// OpaqueOrigin is what a sandboxed srcdoc frame without allow-same-origin
// reports as its origin.
const OpaqueOrigin = "null"

// AllowList accepts exactly the listed origins. The zero value denies
// everything.
type AllowList struct {
	origins map[string]struct{}
}

func NewAllowList(origins ...string) AllowList {
	a := AllowList{origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || o == "*" {
			continue
		}
		a.origins[strings.ToLower(o)] = struct{}{}
	}
	return a
}

func (a AllowList) Allow(origin string) bool {
	if origin == "" {
		return false
	}
	_, ok := a.origins[strings.ToLower(origin)]
	return ok
}

// Origins returns the allowed origins in no particular order.
func (a AllowList) Origins() []string {
	out := make([]string, 0, len(a.origins))
	for o := range a.origins {
		out = append(out, o)
	}
	return out
}
