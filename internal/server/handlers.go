package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ticketscope/ticketscope/internal/utils"
	"github.com/ticketscope/ticketscope/pkg/listing"
	"github.com/ticketscope/ticketscope/pkg/query"
	"github.com/ticketscope/ticketscope/pkg/search"
)

// apiListing flattens a merged listing for JSON output: the date as a
// plain calendar string (empty when unknown) and the best offer attached.
type apiListing struct {
	listing.Listing
	Date      string          `json:"date"`
	Offers    []listing.Offer `json:"offers"`
	BestOffer listing.Offer   `json:"bestOffer"`
}

func toAPI(items []listing.Merged) []apiListing {
	out := make([]apiListing, 0, len(items))
	for i := range items {
		m := &items[i]
		date := ""
		if !m.Date.IsZero() {
			date = m.Date.Format("2006-01-02")
		}
		out = append(out, apiListing{
			Listing:   m.Listing,
			Date:      date,
			Offers:    m.SortedOffers(),
			BestOffer: m.BestOffer(),
		})
	}
	return out
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := query.Params{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		City:     q.Get("city"),
		Sort:     q.Get("sort"),
		Page:     intParam(q.Get("page")),
		Limit:    intParam(q.Get("limit")),
	}

	res, err := s.Engine.Events(r.Context(), params)
	if err != nil {
		s.serverError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"events":     toAPI(res.Items),
		"total":      res.Total,
		"page":       res.Page,
		"totalPages": res.TotalPages,
		"hasMore":    res.HasMore,
		"cached":     res.CacheHit,
	})
}

func (s *Server) handleFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, _ := time.Parse("2006-01-02", q.Get("date"))
	params := query.Params{
		Origin:      q.Get("from"),
		Destination: q.Get("to"),
		Date:        date,
		Passengers:  intParam(q.Get("passengers")),
		Sort:        q.Get("sort"),
		Page:        intParam(q.Get("page")),
		Limit:       intParam(q.Get("limit")),
	}

	res, err := s.Engine.Flights(r.Context(), params)
	if errors.Is(err, search.ErrMissingRoute) {
		writeError(w, http.StatusBadRequest, "Missing required parameters",
			"Необходимо указать: from (откуда), to (куда), date (дата)")
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"tickets":    toAPI(res.Items),
		"total":      res.Total,
		"page":       res.Page,
		"totalPages": res.TotalPages,
		"hasMore":    res.HasMore,
		"cached":     res.CacheHit,
		"stats":      res.Stats,
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, search.PopularRoutes())
}

func (s *Server) handleAirlines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, search.Airlines())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.Engine.ClearCache()
	writeJSON(w, map[string]string{"status": "cleared"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	events, flights := s.Engine.Platforms()
	writeJSON(w, map[string]interface{}{
		"cachedQueries":   s.Engine.CachedQueries(),
		"eventPlatforms":  events,
		"flightPlatforms": flights,
	})
}

// serverError hides internals from the caller: adapter and pipeline
// failures surface as a generic try-again-later payload.
func (s *Server) serverError(w http.ResponseWriter, err error) {
	utils.Log.Errorf("Request failed: %v", err)
	writeError(w, http.StatusInternalServerError, "Internal server error",
		"Не удалось загрузить данные. Попробуйте позже.")
}

func writeError(w http.ResponseWriter, code int, title, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": title, "message": message})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func intParam(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
