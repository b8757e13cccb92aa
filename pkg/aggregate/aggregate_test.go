package aggregate

import (
	"testing"
	"time"

	"github.com/ticketscope/ticketscope/pkg/listing"
)

func event(title, venue string, date time.Time, platform string, price int) listing.Canonical {
	return listing.Canonical{
		Listing: listing.Listing{Kind: listing.KindEvent, Title: title, Venue: venue, Date: date},
		Offer:   listing.Offer{Platform: platform, Price: price},
	}
}

func TestKey_FoldsCaseAndSpaces(t *testing.T) {
	date := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	a := listing.Listing{Kind: listing.KindEvent, Title: "Concert  X", Venue: "Hall A", Date: date}
	b := listing.Listing{Kind: listing.KindEvent, Title: "concert x", Venue: "HALL A", Date: date}
	if Key(a) != Key(b) {
		t.Fatalf("keys differ: %q vs %q", Key(a), Key(b))
	}
}

func TestKey_UnknownDate(t *testing.T) {
	a := listing.Listing{Kind: listing.KindEvent, Title: "Concert X", Venue: "Hall A"}
	b := listing.Listing{Kind: listing.KindEvent, Title: "Concert X", Venue: "Hall A",
		Date: time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)}
	if Key(a) == Key(b) {
		t.Fatal("unknown date must not collide with a known one")
	}
}

func TestKey_FlightUsesRouteIdentity(t *testing.T) {
	date := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	a := listing.Listing{Kind: listing.KindFlight, Airline: "Аэрофлот", FlightNumber: "SU 6", Date: date, Class: listing.ClassEconomy}
	b := listing.Listing{Kind: listing.KindFlight, Airline: "аэрофлот", FlightNumber: "su 6", Date: date, Class: listing.ClassEconomy}
	c := listing.Listing{Kind: listing.KindFlight, Airline: "Аэрофлот", FlightNumber: "SU 6", Date: date, Class: listing.ClassBusiness}
	if Key(a) != Key(b) {
		t.Fatal("case variants of the same flight should merge")
	}
	if Key(a) == Key(c) {
		t.Fatal("different cabin classes must not merge")
	}
}

func TestMerge_CollapsesPlatformVariants(t *testing.T) {
	date := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	in := []listing.Canonical{
		event("Concert  X", "Hall A", date, "P1", 1500),
		event("concert x", "HALL A", date, "P2", 1400),
	}
	out := Merge(in)
	if len(out) != 1 {
		t.Fatalf("got %d merged listings, want 1", len(out))
	}
	m := out[0]
	if len(m.Offers) != 2 {
		t.Fatalf("got %d offers, want 2", len(m.Offers))
	}
	best := m.BestOffer()
	if best.Platform != "P2" || best.Price != 1400 {
		t.Fatalf("best offer = %+v, want P2 at 1400", best)
	}
	// Attributes come from the first-seen listing.
	if m.Title != "Concert  X" {
		t.Fatalf("attributes should come from the first record, got %q", m.Title)
	}
}

func TestMerge_SamePlatformKeepsCheaper(t *testing.T) {
	date := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	in := []listing.Canonical{
		event("Concert X", "Hall A", date, "P1", 1500),
		event("Concert X", "Hall A", date, "p1", 1200),
		event("Concert X", "Hall A", date, "P1", 1300),
	}
	out := Merge(in)
	if len(out) != 1 || len(out[0].Offers) != 1 {
		t.Fatalf("want exactly one offer, got %+v", out)
	}
	if out[0].Offers[0].Price != 1200 {
		t.Fatalf("duplicate platform should keep the cheaper fare, got %d", out[0].Offers[0].Price)
	}
}

func TestMerge_PreservesFirstSeenOrder(t *testing.T) {
	date := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	in := []listing.Canonical{
		event("Концерт Альфа тут", "Зал 1", date, "P1", 100),
		event("Концерт Бета тоже", "Зал 2", date, "P1", 200),
		event("Концерт Альфа тут", "Зал 1", date, "P2", 90),
	}
	out := Merge(in)
	if len(out) != 2 {
		t.Fatalf("got %d merged listings, want 2", len(out))
	}
	if out[0].Title != "Концерт Альфа тут" || out[1].Title != "Концерт Бета тоже" {
		t.Fatalf("order not preserved: %q, %q", out[0].Title, out[1].Title)
	}
}

func TestBestOffer_FeeIncludedAndTieBreak(t *testing.T) {
	date := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	m := listing.Merged{
		Listing: listing.Listing{Kind: listing.KindEvent, Title: "Concert X", Venue: "Hall A", Date: date},
		Offers: []listing.Offer{
			{Platform: "B", Price: 1000, Fee: 300},
			{Platform: "A", Price: 1200, Fee: 100},
		},
	}
	best := m.BestOffer()
	if best.Platform != "A" {
		t.Fatalf("fee must count toward the total, got %+v", best)
	}

	m.Offers = []listing.Offer{
		{Platform: "B", Price: 1000},
		{Platform: "A", Price: 1000},
	}
	best = m.BestOffer()
	if best.Platform != "A" {
		t.Fatalf("equal totals should break the tie by platform name, got %q", best.Platform)
	}
}

func TestMerge_Empty(t *testing.T) {
	if out := Merge(nil); len(out) != 0 {
		t.Fatalf("got %d, want empty", len(out))
	}
	var m listing.Merged
	if best := m.BestOffer(); best.Platform != "" {
		t.Fatalf("no offers should yield a zero offer, got %+v", best)
	}
}
