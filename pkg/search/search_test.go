package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ticketscope/ticketscope/pkg/cache"
	"github.com/ticketscope/ticketscope/pkg/listing"
	"github.com/ticketscope/ticketscope/pkg/platforms"
	"github.com/ticketscope/ticketscope/pkg/platforms/testplat"
	"github.com/ticketscope/ticketscope/pkg/query"
)

func TestEvents_MergesAcrossPlatforms(t *testing.T) {
	p1 := &testplat.Adapter{Platform: "P1", Listings: []listing.Raw{
		{Title: "Concert  X в Hall A", Price: "1 500 ₽", Date: "15.09.2025", Venue: "Hall A", URL: "https://p1/x"},
	}}
	p2 := &testplat.Adapter{Platform: "P2", Listings: []listing.Raw{
		{Title: "concert x в hall a", Price: "1 400₽", Date: "15.09.2025", Venue: "HALL A", URL: "https://p2/x"},
	}}
	e := New(Config{EventAdapters: []platforms.Adapter{p1, p2}, Cache: cache.New(time.Minute)})

	res, err := e.Events(context.Background(), query.Params{Search: "concert"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || len(res.Items) != 1 {
		t.Fatalf("got %d items, want one merged listing", res.Total)
	}
	m := res.Items[0]
	if len(m.Offers) != 2 {
		t.Fatalf("got %d offers, want 2", len(m.Offers))
	}
	best := m.BestOffer()
	if best.Platform != "P2" || best.Price != 1400 {
		t.Fatalf("best offer = %+v, want P2 at 1400", best)
	}
}

func TestEvents_CacheHitSkipsAdapters(t *testing.T) {
	p1 := &testplat.Adapter{Platform: "P1", Listings: []listing.Raw{
		{Title: "Концерт Би-2 в Москве", Price: "1 500 ₽", Date: "15.09.2025", Venue: "Крокус"},
	}}
	e := New(Config{EventAdapters: []platforms.Adapter{p1}, Cache: cache.New(time.Minute)})

	first, err := e.Events(context.Background(), query.Params{Search: "концерт"})
	if err != nil || first.CacheHit {
		t.Fatalf("first call: hit=%v err=%v", first.CacheHit, err)
	}
	second, err := e.Events(context.Background(), query.Params{Search: "Концерт"})
	if err != nil || !second.CacheHit {
		t.Fatalf("second call should hit the cache: hit=%v err=%v", second.CacheHit, err)
	}
	if p1.Calls != 1 {
		t.Fatalf("adapter fetched %d times, want 1", p1.Calls)
	}
}

func TestEvents_FailedAdapterDoesNotFailSearch(t *testing.T) {
	broken := &testplat.Adapter{Platform: "broken", Err: errors.New("status code 503")}
	ok := &testplat.Adapter{Platform: "ok", Listings: []listing.Raw{
		{Title: "Концерт Би-2 в Москве", Price: "1 500 ₽", Venue: "Крокус"},
	}}
	e := New(Config{EventAdapters: []platforms.Adapter{broken, ok}, Cache: cache.New(time.Minute)})

	res, err := e.Events(context.Background(), query.Params{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Fatalf("got %d items, want 1 from the healthy platform", res.Total)
	}
}

func TestEvents_DemoFallback(t *testing.T) {
	empty := &testplat.Adapter{Platform: "empty"}
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	e := New(Config{
		EventAdapters: []platforms.Adapter{empty},
		Cache:         cache.New(time.Minute),
		DemoFallback:  true,
		Now:           func() time.Time { return now },
	})

	res, err := e.Events(context.Background(), query.Params{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total == 0 {
		t.Fatal("demo fallback should fill an empty result set")
	}

	e2 := New(Config{EventAdapters: []platforms.Adapter{empty}, Cache: cache.New(time.Minute)})
	res2, err := e2.Events(context.Background(), query.Params{})
	if err != nil {
		t.Fatal(err)
	}
	if res2.Total != 0 {
		t.Fatalf("fallback disabled, got %d items", res2.Total)
	}
}

func TestFlights_RequiresRoute(t *testing.T) {
	e := New(Config{Cache: cache.New(time.Minute)})
	cases := []query.Params{
		{},
		{Origin: "MOW"},
		{Origin: "MOW", Destination: "LED"},
		{Destination: "LED", Date: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, p := range cases {
		if _, err := e.Flights(context.Background(), p); !errors.Is(err, ErrMissingRoute) {
			t.Fatalf("Flights(%+v) err = %v, want ErrMissingRoute", p, err)
		}
	}
}

func TestFlights_StatsAndSort(t *testing.T) {
	a := &testplat.Adapter{Platform: "A", Listings: []listing.Raw{
		{Airline: "Аэрофлот", FlightNumber: "SU 6", Price: "5 400 ₽", Route: "прямой"},
		{Airline: "S7 Airlines", FlightNumber: "S7 1009", Price: "4 200 ₽", Route: "1 пересадка"},
	}}
	b := &testplat.Adapter{Platform: "B", Listings: []listing.Raw{
		{Airline: "аэрофлот", FlightNumber: "su 6", Price: "5 100 ₽", Route: "прямой"},
	}}
	e := New(Config{FlightAdapters: []platforms.Adapter{a, b}, Cache: cache.New(time.Minute)})

	res, err := e.Flights(context.Background(), query.Params{
		Origin:      "MOW",
		Destination: "LED",
		Date:        time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 2 {
		t.Fatalf("got %d flights, want 2 after merging SU 6", res.Total)
	}
	// Default flight sort is by price.
	if res.Items[0].Airline != "S7 Airlines" {
		t.Fatalf("cheapest flight first, got %q", res.Items[0].Airline)
	}
	su := res.Items[1]
	if len(su.Offers) != 2 || su.BestOffer().Price != 5100 {
		t.Fatalf("SU 6 offers not merged: %+v", su.Offers)
	}

	if res.Stats == nil {
		t.Fatal("flight searches must carry stats")
	}
	if res.Stats.MinPrice != 4200 || res.Stats.MaxPrice != 5100 {
		t.Fatalf("bad price stats: %+v", res.Stats)
	}
	if res.Stats.Airlines != 2 || res.Stats.DirectFlights != 1 {
		t.Fatalf("bad airline stats: %+v", res.Stats)
	}
}

func TestFlights_DemoFallback(t *testing.T) {
	e := New(Config{
		FlightAdapters: []platforms.Adapter{&testplat.Adapter{Platform: "empty"}},
		Cache:          cache.New(time.Minute),
		DemoFallback:   true,
	})
	res, err := e.Flights(context.Background(), query.Params{
		Origin:      "MOW",
		Destination: "LED",
		Date:        time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total == 0 {
		t.Fatal("demo fallback should fill an empty flight result set")
	}
	for _, m := range res.Items {
		if m.Origin != "MOW" || m.Destination != "LED" {
			t.Fatalf("demo flight carries the wrong route: %+v", m.Listing)
		}
	}
}

func TestInvalidateQuery(t *testing.T) {
	p1 := &testplat.Adapter{Platform: "P1", Listings: []listing.Raw{
		{Title: "Концерт Би-2 в Москве", Price: "1 500 ₽", Venue: "Крокус"},
	}}
	e := New(Config{EventAdapters: []platforms.Adapter{p1}, Cache: cache.New(time.Minute)})

	params := query.Params{Search: "концерт"}
	e.Events(context.Background(), params)
	e.InvalidateQuery(params)
	res, _ := e.Events(context.Background(), params)
	if res.CacheHit {
		t.Fatal("invalidated query served from cache")
	}
	if p1.Calls != 2 {
		t.Fatalf("adapter fetched %d times, want 2", p1.Calls)
	}
}

func TestWarmUp(t *testing.T) {
	p1 := &testplat.Adapter{Platform: "P1", Listings: []listing.Raw{
		{Title: "Концерт Би-2 в Москве", Price: "1 500 ₽", Venue: "Крокус"},
	}}
	e := New(Config{EventAdapters: []platforms.Adapter{p1}, Cache: cache.New(time.Minute)})

	e.WarmUp(context.Background(), []string{"", "концерт"})
	if e.CachedQueries() != 2 {
		t.Fatalf("got %d cached queries, want 2", e.CachedQueries())
	}
	res, _ := e.Events(context.Background(), query.Params{Search: "концерт"})
	if !res.CacheHit {
		t.Fatal("warmed query should hit the cache")
	}
}

func TestPlatforms(t *testing.T) {
	e := New(Config{
		EventAdapters:  []platforms.Adapter{&testplat.Adapter{Platform: "kassir"}},
		FlightAdapters: []platforms.Adapter{&testplat.Adapter{Platform: "aviasales"}},
		Cache:          cache.New(time.Minute),
	})
	events, flights := e.Platforms()
	if len(events) != 1 || events[0] != "kassir" {
		t.Fatalf("events = %v", events)
	}
	if len(flights) != 1 || flights[0] != "aviasales" {
		t.Fatalf("flights = %v", flights)
	}
}
