package links

import (
	"time"

	"github.com/alexraskin/linkflow/internal/models"
)

// IsVisible reports whether link should be displayed at now. Both window
// bounds are inclusive, so a window whose start is after its end never
// matches.
func IsVisible(link models.Link, now time.Time) bool {
	if !link.Active {
		return false
	}
	if link.StartDate != nil && now.Before(*link.StartDate) {
		return false
	}
	if link.EndDate != nil && now.After(*link.EndDate) {
		return false
	}
	return true
}

// FilterVisible returns the links visible at now, in input order.
func FilterVisible(links []models.Link, now time.Time) []models.Link {
	out := make([]models.Link, 0, len(links))
	for _, l := range links {
		if IsVisible(l, now) {
			out = append(out, l)
		}
	}
	return out
}

// NextChange returns the earliest instant after now at which the visible
// set can change, or false when no active link has a pending bound.
func NextChange(links []models.Link, now time.Time) (time.Time, bool) {
	var next time.Time
	consider := func(t time.Time) {
		if t.After(now) && (next.IsZero() || t.Before(next)) {
			next = t
		}
	}
	for _, l := range links {
		if !l.Active {
			continue
		}
		if l.StartDate != nil {
			consider(*l.StartDate)
		}
		if l.EndDate != nil {
			// inclusive end: the link disappears just after it
			consider(l.EndDate.Add(time.Nanosecond))
		}
	}
	return next, !next.IsZero()
}
