// Package links partitions a profile's links into social, support and
// regular groups and decides which of them are visible at a given instant.
package links

import (
	"log/slog"

	"github.com/alexraskin/linkflow/internal/models"
)

// Support sub-slot titles, matched exactly and case-sensitively.
const (
	TitleCoffee    = "Buy Me A Coffee"
	TitleETransfer = "E-Transfer"
	TitleBTC       = "BTC"
	TitleETH       = "ETH"
	TitleSOL       = "SOL"
)

// CryptoTitles is the order crypto logs are rendered in.
var CryptoTitles = []string{TitleBTC, TitleETH, TitleSOL}

type SupportSlots struct {
	Coffee    *models.Link
	ETransfer *models.Link
	BTC       *models.Link
	ETH       *models.Link
	SOL       *models.Link
}

// Crypto returns the present crypto slots in render order.
func (s SupportSlots) Crypto() []*models.Link {
	var out []*models.Link
	for _, l := range []*models.Link{s.BTC, s.ETH, s.SOL} {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

// Any reports whether the Support Me block has anything to show.
func (s SupportSlots) Any() bool {
	return s.Coffee != nil || s.ETransfer != nil || len(s.Crypto()) > 0
}

type Classified struct {
	Social  []models.Link
	Support []models.Link
	Regular []models.Link
	Slots   SupportSlots
}

// Classify partitions links. IsSocial wins over IsSupport when both are set.
// Order within each partition follows the input.
func Classify(links []models.Link) Classified {
	var c Classified
	for _, l := range links {
		switch {
		case l.IsSocial:
			c.Social = append(c.Social, l)
		case l.IsSupport:
			c.Support = append(c.Support, l)
		default:
			c.Regular = append(c.Regular, l)
		}
	}
	c.Slots = extractSlots(c.Support)
	return c
}

func extractSlots(support []models.Link) SupportSlots {
	var s SupportSlots
	for i := range support {
		l := &support[i]
		var slot **models.Link
		switch l.Title {
		case TitleCoffee:
			slot = &s.Coffee
		case TitleETransfer:
			slot = &s.ETransfer
		case TitleBTC:
			slot = &s.BTC
		case TitleETH:
			slot = &s.ETH
		case TitleSOL:
			slot = &s.SOL
		default:
			continue
		}
		if *slot != nil {
			slog.Warn("Duplicate support link title, keeping first",
				"title", l.Title, "kept_id", (*slot).ID, "ignored_id", l.ID)
			continue
		}
		*slot = l
	}
	return s
}
