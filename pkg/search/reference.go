package search

// Route is one promoted city pair shown before the user searches.
type Route struct {
	From string `json:"from"`
	To   string `json:"to"`
	Name string `json:"name"`
}

// Airline is one carrier in the reference directory.
type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// PopularRoutes returns the promoted routes, most searched first.
func PopularRoutes() []Route {
	return []Route{
		{From: "MOW", To: "LED", Name: "Москва → Санкт-Петербург"},
		{From: "MOW", To: "SVX", Name: "Москва → Екатеринбург"},
		{From: "MOW", To: "KRR", Name: "Москва → Краснодар"},
		{From: "MOW", To: "AER", Name: "Москва → Сочи"},
		{From: "LED", To: "MOW", Name: "Санкт-Петербург → Москва"},
		{From: "MOW", To: "AYT", Name: "Москва → Анталья"},
		{From: "MOW", To: "IST", Name: "Москва → Стамбул"},
	}
}

// Airlines returns the carrier directory used by filter dropdowns.
func Airlines() []Airline {
	return []Airline{
		{Code: "SU", Name: "Аэрофлот"},
		{Code: "S7", Name: "S7 Airlines"},
		{Code: "UT", Name: "UTair"},
		{Code: "U6", Name: "Уральские авиалинии"},
		{Code: "FV", Name: "Россия"},
		{Code: "6L", Name: "Азимут"},
		{Code: "N4", Name: "Нордстар"},
	}
}
