package listing

import (
	"sort"
	"time"
)

// Kind distinguishes the two listing domains served by the aggregator.
type Kind string

const (
	KindEvent  Kind = "event"
	KindFlight Kind = "flight"
)

// Category is the unified event category. Raw platform titles are mapped
// onto these values by the normalizer.
type Category string

const (
	CategoryConcert    Category = "concert"
	CategoryTheatre    Category = "theatre"
	CategoryFestival   Category = "festival"
	CategoryExhibition Category = "exhibition"
	CategorySport      Category = "sport"
	CategoryStandup    Category = "standup"
	CategoryKids       Category = "kids"
	CategoryOther      Category = "other"
)

// FlightClass is the unified cabin class.
type FlightClass string

const (
	ClassEconomy  FlightClass = "economy"
	ClassComfort  FlightClass = "comfort"
	ClassBusiness FlightClass = "business"
)

// Raw is one record as scraped from a platform page, before any parsing.
// Price and Date are free text exactly as the platform rendered them.
type Raw struct {
	Title    string
	Price    string
	Date     string
	Venue    string
	URL      string
	Platform string

	// Flight-only fields.
	Airline      string
	Route        string
	FlightNumber string
	Time         string
}

// Offer is one platform's price for a listing.
type Offer struct {
	Platform string `json:"platform"`
	Price    int    `json:"price"`
	Fee      int    `json:"fee"`
	URL      string `json:"url"`
}

// Total is the amount a buyer actually pays through this offer.
func (o Offer) Total() int { return o.Price + o.Fee }

// Listing holds the platform-independent attributes of one offering.
// A zero Date means the platform did not expose a parseable date.
type Listing struct {
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue,omitempty"`
	City        string    `json:"city,omitempty"`
	Category    Category  `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`

	Airline      string      `json:"airline,omitempty"`
	FlightNumber string      `json:"flightNumber,omitempty"`
	Class        FlightClass `json:"class,omitempty"`
	Origin       string      `json:"origin,omitempty"`
	Destination  string      `json:"destination,omitempty"`
	DurationMin  int         `json:"durationMin,omitempty"`
	Stops        int         `json:"stops"`
	Baggage      string      `json:"baggage,omitempty"`
}

// Canonical is one normalized record from a single platform: the listing
// attributes plus that platform's offer.
type Canonical struct {
	Listing
	Offer Offer
}

// Merged is the unit returned to callers: one real-world offering with
// every contributing platform's offer attached.
type Merged struct {
	Listing
	Offers []Offer `json:"offers"`
}

// BestOffer returns the offer with the lowest price+fee. Ties break by
// platform name so output stays deterministic. It is computed on every
// call, so it can never go stale relative to the offer set.
func (m *Merged) BestOffer() Offer {
	if len(m.Offers) == 0 {
		return Offer{}
	}
	best := m.Offers[0]
	for _, o := range m.Offers[1:] {
		if o.Total() < best.Total() || (o.Total() == best.Total() && o.Platform < best.Platform) {
			best = o
		}
	}
	return best
}

// SortedOffers returns the offers ordered by total cost, cheapest first.
func (m *Merged) SortedOffers() []Offer {
	out := append([]Offer(nil), m.Offers...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total() != out[j].Total() {
			return out[i].Total() < out[j].Total()
		}
		return out[i].Platform < out[j].Platform
	})
	return out
}

// Clone returns a deep copy so cached listings can be handed out without
// sharing the offer slice.
func (m Merged) Clone() Merged {
	c := m
	c.Offers = append([]Offer(nil), m.Offers...)
	return c
}

// CloneAll deep-copies a merged result set.
func CloneAll(in []Merged) []Merged {
	if in == nil {
		return nil
	}
	out := make([]Merged, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
