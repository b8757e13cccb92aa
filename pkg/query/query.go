// Package query holds the consumer-side pipeline applied to a merged
// result set: fingerprinting, filtering, sorting, and pagination.
package query

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ticketscope/ticketscope/internal/utils"
	"github.com/ticketscope/ticketscope/pkg/listing"
)

// All is the sentinel filter value that matches everything.
const All = "all"

// Sort keys.
const (
	SortDate    = "date"
	SortPrice   = "price"
	SortName    = "name"
	SortStops   = "stops"
	SortAirline = "airline"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is one normalized search request as seen by the aggregation
// engine and the cache fingerprint.
type Params struct {
	Kind     listing.Kind
	Search   string
	Category string
	City     string

	Origin      string
	Destination string
	Date        time.Time
	Passengers  int

	Page  int
	Limit int
	Sort  string
}

// Normalized returns a copy with fields case-folded, trimmed, and
// defaulted, so equal queries always produce equal fingerprints.
func (p Params) Normalized() Params {
	p.Search = utils.Fold(p.Search)
	p.Category = utils.Fold(p.Category)
	p.City = utils.SquashSpaces(p.City)
	p.Origin = strings.ToUpper(utils.SquashSpaces(p.Origin))
	p.Destination = strings.ToUpper(utils.SquashSpaces(p.Destination))
	p.Sort = utils.Fold(p.Sort)
	if p.Sort == "" {
		if p.Kind == listing.KindFlight {
			p.Sort = SortPrice
		} else {
			p.Sort = SortDate
		}
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Passengers < 1 {
		p.Passengers = 1
	}
	return p
}

// Fingerprint derives the deterministic cache key for these parameters.
// Call it on a Normalized copy; the ordering of fields is fixed.
func (p Params) Fingerprint() string {
	date := ""
	if !p.Date.IsZero() {
		date = p.Date.Format("2006-01-02")
	}
	if p.Kind == listing.KindFlight {
		return strings.Join([]string{
			"flights", p.Origin, p.Destination, date, strconv.Itoa(p.Passengers), strconv.Itoa(p.Page),
		}, "_")
	}
	return strings.Join([]string{
		"events", p.Search, p.Category, utils.Fold(p.City), date, strconv.Itoa(p.Page),
	}, "_")
}

// Result is one page of a filtered, sorted result set.
type Result struct {
	Items      []listing.Merged
	Total      int
	Page       int
	TotalPages int
	HasMore    bool
}

// Apply runs the full consumer pipeline over a merged set: search-term and
// category/city filtering, sorting, then pagination. The input slice is
// not modified.
func Apply(items []listing.Merged, p Params) Result {
	filtered := Filter(items, p)
	Sort(filtered, p.Sort)
	return Paginate(filtered, p.Page, p.Limit)
}

// Filter applies case-insensitive substring search and exact category/city
// matching. The "all" sentinel (or empty) disables a filter.
func Filter(items []listing.Merged, p Params) []listing.Merged {
	out := make([]listing.Merged, 0, len(items))
	for _, m := range items {
		if p.Search != "" && !matchesSearch(m, p.Search) {
			continue
		}
		if p.Category != "" && p.Category != All && !matchesCategory(m, p.Category) {
			continue
		}
		if p.City != "" && !strings.EqualFold(p.City, All) && !strings.EqualFold(m.City, p.City) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesSearch(m listing.Merged, term string) bool {
	return utils.ContainsFold(m.Title, term) ||
		utils.ContainsFold(m.Venue, term) ||
		utils.ContainsFold(m.Description, term) ||
		utils.ContainsFold(m.Airline, term)
}

func matchesCategory(m listing.Merged, category string) bool {
	if m.Kind == listing.KindFlight {
		return strings.EqualFold(string(m.Class), category)
	}
	return strings.EqualFold(string(m.Category), category)
}

// Sort orders a merged set in place by the given key. Unknown dates (zero
// time) sort after any real date; ties keep the incoming order.
func Sort(items []listing.Merged, key string) {
	var less func(i, j int) bool
	switch key {
	case SortPrice:
		less = func(i, j int) bool {
			return items[i].BestOffer().Total() < items[j].BestOffer().Total()
		}
	case SortName:
		less = func(i, j int) bool {
			return utils.Fold(items[i].Title) < utils.Fold(items[j].Title)
		}
	case SortStops:
		less = func(i, j int) bool { return items[i].Stops < items[j].Stops }
	case SortAirline:
		less = func(i, j int) bool {
			return utils.Fold(items[i].Airline) < utils.Fold(items[j].Airline)
		}
	default: // SortDate
		less = func(i, j int) bool {
			di, dj := items[i].Date, items[j].Date
			if di.IsZero() != dj.IsZero() {
				return !di.IsZero()
			}
			return di.Before(dj)
		}
	}
	sort.SliceStable(items, less)
}

// Paginate slices one page out of the set, reporting whether more pages
// follow.
func Paginate(items []listing.Merged, page, limit int) Result {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	total := len(items)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Result{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		HasMore:    start+limit < total,
	}
}
