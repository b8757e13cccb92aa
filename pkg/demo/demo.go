// Package demo generates the fallback listing sets served when every
// platform fails or finds nothing. The data is deterministic so cached
// pages stay stable between refreshes.
package demo

import (
	"fmt"
	"strings"
	"time"

	"github.com/ticketscope/ticketscope/pkg/listing"
)

var eventSeeds = []struct {
	title    string
	venue    string
	city     string
	category listing.Category
	price    int
}{
	{"Концерт Группы Ленинград", "Стадион Лужники", "Москва", listing.CategoryConcert, 3500},
	{"Спектакль \"Евгений Онегин\"", "Известия Hall", "Москва", listing.CategoryTheatre, 2200},
	{"Фестиваль \"Усадьба Jazz\"", "Arena Moscow", "Москва", listing.CategoryFestival, 2800},
	{"Выставка \"Импрессионисты\"", "Крокус Сити Холл", "Москва", listing.CategoryExhibition, 900},
	{"Стендап комик Иван Иванов", "Главclub", "Санкт-Петербург", listing.CategoryStandup, 1500},
	{"Балет \"Лебединое озеро\"", "Олимпийский", "Москва", listing.CategoryTheatre, 4200},
	{"Рок-фестиваль \"Нашествие\"", "Adrenaline Stadium", "Москва", listing.CategoryFestival, 3100},
	{"Концерт Би-2", "Крокус Сити Холл", "Москва", listing.CategoryConcert, 2600},
}

var eventPlatforms = []string{"Kassir.ru", "Ticketland", "Яндекс.Афиша", "Parter.ru"}

// Events builds the demo event set. When searchTerm is non-empty only
// matching titles are produced, so the fallback behaves like a search.
func Events(searchTerm string, now time.Time) []listing.Merged {
	out := make([]listing.Merged, 0, len(eventSeeds))
	for i, seed := range eventSeeds {
		if searchTerm != "" && !strings.Contains(strings.ToLower(seed.title), strings.ToLower(searchTerm)) {
			continue
		}
		date := now.AddDate(0, 0, 7+i*3).Truncate(24 * time.Hour)
		m := listing.Merged{
			Listing: listing.Listing{
				Kind:        listing.KindEvent,
				Title:       seed.title,
				Date:        date,
				Venue:       seed.venue,
				City:        seed.city,
				Category:    seed.category,
				Description: fmt.Sprintf("Мероприятие %q. Увлекательное шоу для всей семьи.", seed.title),
			},
		}
		// Two or three platforms per listing, price spread around the seed.
		for p := 0; p < 2+i%2; p++ {
			platform := eventPlatforms[(i+p)%len(eventPlatforms)]
			m.Offers = append(m.Offers, listing.Offer{
				Platform: platform,
				Price:    seed.price + p*150,
				Fee:      100 + p*50,
				URL:      demoURL(platform),
			})
		}
		out = append(out, m)
	}
	return out
}

var flightSeeds = []struct {
	airline  string
	number   string
	class    listing.FlightClass
	price    int
	duration int
	stops    int
}{
	{"Аэрофлот", "SU 1102", listing.ClassEconomy, 5400, 85, 0},
	{"S7 Airlines", "S7 1009", listing.ClassEconomy, 4900, 90, 0},
	{"Уральские авиалинии", "U6 263", listing.ClassEconomy, 4300, 95, 0},
	{"Аэрофлот", "SU 1106", listing.ClassComfort, 26800, 85, 0},
	{"Россия", "FV 6015", listing.ClassEconomy, 6100, 100, 1},
	{"Аэрофлот", "SU 1110", listing.ClassBusiness, 52400, 85, 0},
}

var flightPlatforms = []string{"Aviasales", "Яндекс.Путешествия", "S7 Airlines"}

// Flights builds the demo flight set for one route and date.
func Flights(origin, destination string, date time.Time) []listing.Merged {
	out := make([]listing.Merged, 0, len(flightSeeds))
	for i, seed := range flightSeeds {
		m := listing.Merged{
			Listing: listing.Listing{
				Kind:         listing.KindFlight,
				Title:        origin + " - " + destination,
				Date:         date,
				Airline:      seed.airline,
				FlightNumber: seed.number,
				Class:        seed.class,
				Origin:       origin,
				Destination:  destination,
				DurationMin:  seed.duration,
				Stops:        seed.stops,
				Baggage:      baggage(seed.class),
			},
		}
		for p := 0; p < 2; p++ {
			platform := flightPlatforms[(i+p)%len(flightPlatforms)]
			m.Offers = append(m.Offers, listing.Offer{
				Platform: platform,
				Price:    seed.price + p*200,
				URL:      demoURL(platform),
			})
		}
		out = append(out, m)
	}
	return out
}

func baggage(class listing.FlightClass) string {
	if class == listing.ClassBusiness {
		return "2 места"
	}
	return "1 место"
}

func demoURL(platform string) string {
	slug := strings.ToLower(strings.ReplaceAll(platform, ".", ""))
	slug = strings.ReplaceAll(slug, " ", "")
	return "https://" + slug + ".example/demo"
}
