// Package aggregate merges canonical listings from different platforms into
// one result set with a combined price list per real-world offering.
package aggregate

import (
	"strings"
	"time"

	"github.com/ticketscope/ticketscope/internal/utils"
	"github.com/ticketscope/ticketscope/pkg/listing"
)

// Key computes the identity of a listing: two listings with the same key
// describe the same offering observed on different platforms. Fields are
// case-folded and whitespace-squashed so "Concert X" at "Hall A" and
// "concert x" at "hall a" collapse into one.
func Key(l listing.Listing) string {
	var parts []string
	switch l.Kind {
	case listing.KindFlight:
		parts = []string{string(l.Kind), l.Airline, l.FlightNumber, dateKey(l.Date), string(l.Class)}
	default:
		parts = []string{string(l.Kind), l.Title, dateKey(l.Date), l.Venue}
	}
	for i, p := range parts {
		parts[i] = utils.Fold(p)
	}
	return strings.Join(parts, "|")
}

func dateKey(d time.Time) string {
	if d.IsZero() {
		return "unknown"
	}
	return d.Format("2006-01-02")
}

// Merge groups canonical listings by identity key and folds each group into
// one merged listing carrying every contributing platform's offer.
//
// First-seen order is preserved both for groups and for offers, so output is
// deterministic given a deterministic input order. When one platform shows
// two prices for the same identity, the lower one wins.
func Merge(in []listing.Canonical) []listing.Merged {
	byKey := make(map[string]*listing.Merged, len(in))
	order := make([]string, 0, len(in))

	for _, c := range in {
		key := Key(c.Listing)
		m, seen := byKey[key]
		if !seen {
			clone := listing.Merged{Listing: c.Listing, Offers: []listing.Offer{c.Offer}}
			byKey[key] = &clone
			order = append(order, key)
			continue
		}
		mergeOffer(m, c.Offer)
	}

	out := make([]listing.Merged, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}

// mergeOffer adds an offer to a merged listing, keeping at most one offer
// per platform (the cheaper one on a duplicate).
func mergeOffer(m *listing.Merged, offer listing.Offer) {
	for i, existing := range m.Offers {
		if strings.EqualFold(existing.Platform, offer.Platform) {
			if offer.Total() < existing.Total() {
				m.Offers[i] = offer
			}
			return
		}
	}
	m.Offers = append(m.Offers, offer)
}
