// Package normalize converts raw scraped records into canonical listings.
// Everything here is pure: same input, same output, no I/O.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ticketscope/ticketscope/internal/utils"
	"github.com/ticketscope/ticketscope/pkg/listing"
)

const (
	// minTitleLen is the minimum rune length of a usable title. Anything
	// shorter is scraping noise (icons, nav fragments).
	minTitleLen = 6

	// Price thresholds for the cabin class heuristic, in rubles.
	businessPriceMin = 50000
	comfortPriceMin  = 25000

	defaultCity        = "Москва"
	defaultEventTime   = "19:00"
	defaultDurationMin = 120
)

var (
	priceRe = regexp.MustCompile(`\d[\d\s\x{00a0}]*`)
	dateRe  = regexp.MustCompile(`(\d{1,2})[./](\d{1,2})[./](\d{2,4})`)
	hoursRe = regexp.MustCompile(`(\d+)\s*ч`)
)

// garbageTokens mark records whose upstream page broke mid-render.
var garbageTokens = []string{"undefined", "null"}

// ExtractPrice finds the first run of digits (optionally space-separated as
// thousand groups) in free-text price and returns it as an integer in the
// smallest currency unit. A missing or zero price is rejected: those records
// carry no comparable offer.
func ExtractPrice(text string) (int, bool) {
	m := priceRe.FindString(text)
	if m == "" {
		return 0, false
	}
	var digits strings.Builder
	for _, r := range m {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	v, err := strconv.Atoi(digits.String())
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// ExtractDate finds a D[D].M[M].YYYY token in free text and parses it into
// a calendar date. On failure it returns the zero time: an unknown date is
// not a reason to drop an otherwise usable record.
func ExtractDate(text string) (time.Time, bool) {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31.02 becomes 03.03); treat that as
	// a parse failure, not a silently shifted date.
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return d, true
}

// categoryKeywords is the source of truth for category detection. Order
// matters: the first matching group wins.
var categoryKeywords = []struct {
	category listing.Category
	keywords []string
}{
	{listing.CategoryConcert, []string{"концерт", "concert"}},
	{listing.CategoryTheatre, []string{"спектакль", "театр"}},
	{listing.CategoryFestival, []string{"фестиваль"}},
	{listing.CategoryExhibition, []string{"выставка"}},
	{listing.CategorySport, []string{"спорт", "матч"}},
	{listing.CategoryStandup, []string{"стендап", "юмор"}},
	{listing.CategoryKids, []string{"детск", "ребен"}},
}

// DetectCategory maps an event title onto the unified category vocabulary.
func DetectCategory(title string) listing.Category {
	lower := strings.ToLower(title)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.category
			}
		}
	}
	return listing.CategoryOther
}

// DetectFlightClass unifies the cabin class from airline/fare text, falling
// back to a price heuristic when the text says nothing.
func DetectFlightClass(text string, price int) listing.FlightClass {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "бизнес") || strings.Contains(lower, "business"):
		return listing.ClassBusiness
	case strings.Contains(lower, "комфорт") || strings.Contains(lower, "comfort"):
		return listing.ClassComfort
	case strings.Contains(lower, "эконом") || strings.Contains(lower, "economy"):
		return listing.ClassEconomy
	}
	switch {
	case price > businessPriceMin:
		return listing.ClassBusiness
	case price > comfortPriceMin:
		return listing.ClassComfort
	default:
		return listing.ClassEconomy
	}
}

var knownCities = []string{"Москва", "Санкт-Петербург", "Екатеринбург", "Новосибирск", "Казань"}

// ExtractCity pulls a known city name out of venue text.
func ExtractCity(venue string) string {
	for _, city := range knownCities {
		if strings.Contains(venue, city) {
			return city
		}
	}
	return defaultCity
}

// DetectStops estimates the stop count from free-text route description.
func DetectStops(route string) int {
	lower := strings.ToLower(route)
	switch {
	case route == "":
		return 0
	case strings.Contains(lower, "прям"):
		return 0
	case strings.Contains(lower, "1 пересад"):
		return 1
	case strings.Contains(lower, "2 пересад"):
		return 2
	}
	stops := strings.Count(route, "-") - 1
	if stops < 0 {
		return 0
	}
	return stops
}

// ParseDurationMin extracts flight duration in minutes from text like
// "2ч 15м". Unknown durations default to two hours.
func ParseDurationMin(text string) int {
	m := hoursRe.FindStringSubmatch(text)
	if m == nil {
		return defaultDurationMin
	}
	hours, _ := strconv.Atoi(m[1])
	return hours * 60
}

// BaggageForClass returns the checked baggage allowance per cabin class.
func BaggageForClass(class listing.FlightClass) string {
	if class == listing.ClassBusiness {
		return "2 места"
	}
	return "1 место"
}

func usableTitle(title string) bool {
	if len([]rune(title)) < minTitleLen {
		return false
	}
	for _, tok := range garbageTokens {
		if strings.Contains(title, tok) {
			return false
		}
	}
	return true
}

// Event normalizes one raw event record from the named platform. It returns
// nil when the record is unusable: garbled title or no parseable price.
func Event(raw listing.Raw, platform string) *listing.Canonical {
	title := utils.SquashSpaces(raw.Title)
	if !usableTitle(title) {
		return nil
	}
	price, ok := ExtractPrice(raw.Price)
	if !ok {
		return nil
	}
	date, _ := ExtractDate(raw.Date)
	venue := utils.SquashSpaces(raw.Venue)
	if venue == "" {
		venue = "Место не указано"
	}

	return &listing.Canonical{
		Listing: listing.Listing{
			Kind:        listing.KindEvent,
			Title:       title,
			Date:        date,
			Venue:       venue,
			City:        ExtractCity(venue),
			Category:    DetectCategory(title),
			Description: fmt.Sprintf("Мероприятие %q на площадке %s", title, platform),
		},
		Offer: listing.Offer{
			Platform: platform,
			Price:    price,
			URL:      raw.URL,
		},
	}
}

// Flight normalizes one raw flight record. Origin, destination and date come
// from the search query: scraped route text is too inconsistent to be the
// identity source. Returns nil for records without a parseable price.
func Flight(raw listing.Raw, platform, origin, destination string, date time.Time) *listing.Canonical {
	if strings.Contains(raw.Price, "undefined") {
		return nil
	}
	price, ok := ExtractPrice(raw.Price)
	if !ok {
		return nil
	}

	airline := utils.SquashSpaces(raw.Airline)
	if airline == "" {
		airline = "Авиакомпания не указана"
	}
	route := utils.SquashSpaces(raw.Route)
	if route == "" {
		route = origin + " - " + destination
	}
	class := DetectFlightClass(airline+" "+raw.Price, price)

	return &listing.Canonical{
		Listing: listing.Listing{
			Kind:         listing.KindFlight,
			Title:        route,
			Date:         date,
			Airline:      airline,
			FlightNumber: utils.SquashSpaces(raw.FlightNumber),
			Class:        class,
			Origin:       origin,
			Destination:  destination,
			DurationMin:  ParseDurationMin(raw.Time),
			Stops:        DetectStops(route),
			Baggage:      BaggageForClass(class),
		},
		Offer: listing.Offer{
			Platform: platform,
			Price:    price,
			URL:      raw.URL,
		},
	}
}

// Events normalizes a batch of raw event records, returning the usable
// listings and the count of records dropped as malformed.
func Events(raws []listing.Raw) ([]listing.Canonical, int) {
	out := make([]listing.Canonical, 0, len(raws))
	dropped := 0
	for _, r := range raws {
		c := Event(r, r.Platform)
		if c == nil {
			dropped++
			continue
		}
		out = append(out, *c)
	}
	return out, dropped
}

// Flights normalizes a batch of raw flight records against one search query.
func Flights(raws []listing.Raw, origin, destination string, date time.Time) ([]listing.Canonical, int) {
	out := make([]listing.Canonical, 0, len(raws))
	dropped := 0
	for _, r := range raws {
		c := Flight(r, r.Platform, origin, destination, date)
		if c == nil {
			dropped++
			continue
		}
		out = append(out, *c)
	}
	return out, dropped
}
