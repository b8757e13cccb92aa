// Package search ties the pipeline together: cache-aside lookup around
// fan-out, normalization, and aggregation, plus the consumer-side query
// pipeline on top of the merged set.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/ticketscope/ticketscope/pkg/aggregate"
	"github.com/ticketscope/ticketscope/pkg/cache"
	"github.com/ticketscope/ticketscope/pkg/demo"
	"github.com/ticketscope/ticketscope/pkg/fanout"
	"github.com/ticketscope/ticketscope/pkg/listing"
	"github.com/ticketscope/ticketscope/pkg/normalize"
	"github.com/ticketscope/ticketscope/pkg/platforms"
	"github.com/ticketscope/ticketscope/pkg/query"
)

// ErrMissingRoute is returned when a flight search lacks origin,
// destination, or date.
var ErrMissingRoute = errors.New("flight search requires origin, destination and date")

// nopLogger mirrors fanout's: logging is optional everywhere.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Config wires an Engine. Cache is required; adapters may be empty, in
// which case only demo data can be served.
type Config struct {
	EventAdapters  []platforms.Adapter
	FlightAdapters []platforms.Adapter
	Cache          *cache.Store
	AdapterTimeout time.Duration
	Log            fanout.Logger
	DemoFallback   bool
	Now            func() time.Time
}

// Engine answers event and flight searches from cache or by running the
// full fan-out pipeline.
type Engine struct {
	events       *fanout.Executor
	flights      *fanout.Executor
	cache        *cache.Store
	log          fanout.Logger
	demoFallback bool
	now          func() time.Time
}

func New(cfg Config) *Engine {
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	store := cfg.Cache
	if store == nil {
		store = cache.New(cache.DefaultTTL)
	}
	return &Engine{
		events:       fanout.New(cfg.EventAdapters, cfg.AdapterTimeout, log),
		flights:      fanout.New(cfg.FlightAdapters, cfg.AdapterTimeout, log),
		cache:        store,
		log:          log,
		demoFallback: cfg.DemoFallback,
		now:          now,
	}
}

// FlightStats summarizes one flight result set.
type FlightStats struct {
	MinPrice      int `json:"minPrice"`
	MaxPrice      int `json:"maxPrice"`
	Airlines      int `json:"airlines"`
	DirectFlights int `json:"directFlights"`
}

// ResultSet is one page of search results plus serving metadata.
type ResultSet struct {
	Items      []listing.Merged
	Total      int
	Page       int
	TotalPages int
	HasMore    bool
	CacheHit   bool
	Stats      *FlightStats
}

// Events runs an event search: cached merged set when fresh, otherwise
// fan-out over the event platforms, then filtering/sorting/pagination.
func (e *Engine) Events(ctx context.Context, p query.Params) (*ResultSet, error) {
	p.Kind = listing.KindEvent
	p = p.Normalized()

	merged, hit, err := e.cache.GetOrCompute(p.Fingerprint(), func() ([]listing.Merged, error) {
		return e.computeEvents(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	res := query.Apply(merged, p)
	return &ResultSet{
		Items:      res.Items,
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		HasMore:    res.HasMore,
		CacheHit:   hit,
	}, nil
}

func (e *Engine) computeEvents(ctx context.Context, p query.Params) ([]listing.Merged, error) {
	raws, errs := e.events.Fetch(ctx, platforms.Query{SearchTerm: p.Search})
	for _, ae := range errs {
		e.log.Warnf("Event fan-out: %v", ae)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canon, dropped := normalize.Events(raws)
	if dropped > 0 {
		e.log.Debugf("Dropped %d malformed event records", dropped)
	}
	merged := aggregate.Merge(canon)
	if len(merged) == 0 && e.demoFallback {
		e.log.Infof("All event platforms came back empty, serving demo data")
		merged = demo.Events(p.Search, e.now())
	}
	return merged, nil
}

// Flights runs a flight search for one route and date.
func (e *Engine) Flights(ctx context.Context, p query.Params) (*ResultSet, error) {
	p.Kind = listing.KindFlight
	p = p.Normalized()
	if p.Origin == "" || p.Destination == "" || p.Date.IsZero() {
		return nil, ErrMissingRoute
	}

	merged, hit, err := e.cache.GetOrCompute(p.Fingerprint(), func() ([]listing.Merged, error) {
		return e.computeFlights(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	res := query.Apply(merged, p)
	stats := flightStats(merged)
	return &ResultSet{
		Items:      res.Items,
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		HasMore:    res.HasMore,
		CacheHit:   hit,
		Stats:      &stats,
	}, nil
}

func (e *Engine) computeFlights(ctx context.Context, p query.Params) ([]listing.Merged, error) {
	q := platforms.Query{
		Origin:      p.Origin,
		Destination: p.Destination,
		Date:        p.Date,
		Passengers:  p.Passengers,
	}
	raws, errs := e.flights.Fetch(ctx, q)
	for _, ae := range errs {
		e.log.Warnf("Flight fan-out: %v", ae)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canon, dropped := normalize.Flights(raws, p.Origin, p.Destination, p.Date)
	if dropped > 0 {
		e.log.Debugf("Dropped %d malformed flight records", dropped)
	}
	merged := aggregate.Merge(canon)
	if len(merged) == 0 && e.demoFallback {
		e.log.Infof("All flight platforms came back empty, serving demo data")
		merged = demo.Flights(p.Origin, p.Destination, p.Date)
	}
	return merged, nil
}

func flightStats(merged []listing.Merged) FlightStats {
	stats := FlightStats{}
	airlines := make(map[string]bool)
	for i, m := range merged {
		best := m.BestOffer().Total()
		if i == 0 || best < stats.MinPrice {
			stats.MinPrice = best
		}
		if best > stats.MaxPrice {
			stats.MaxPrice = best
		}
		airlines[m.Airline] = true
		if m.Stops == 0 {
			stats.DirectFlights++
		}
	}
	stats.Airlines = len(airlines)
	return stats
}

// InvalidateQuery busts the cache entry for one normalized query.
func (e *Engine) InvalidateQuery(p query.Params) {
	e.cache.Invalidate(p.Normalized().Fingerprint())
}

// ClearCache wipes every cached result set.
func (e *Engine) ClearCache() { e.cache.ClearAll() }

// CachedQueries reports how many fingerprints are currently cached.
func (e *Engine) CachedQueries() int { return e.cache.Len() }

// Platforms lists the registered adapter names per domain.
func (e *Engine) Platforms() (events, flights []string) {
	return e.events.Adapters(), e.flights.Adapters()
}

// WarmUp clears the cache and re-runs the popular event queries so the
// next user request hits fresh entries. Called by the scheduled refresh.
func (e *Engine) WarmUp(ctx context.Context, terms []string) {
	e.cache.ClearAll()
	for _, term := range terms {
		if ctx.Err() != nil {
			return
		}
		if _, err := e.Events(ctx, query.Params{Search: term}); err != nil {
			e.log.Warnf("Warm-up for %q failed: %v", term, err)
		}
	}
}
