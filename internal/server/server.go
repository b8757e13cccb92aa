package server

import (
	"net/http"

	"github.com/ticketscope/ticketscope/internal/utils"
	"github.com/ticketscope/ticketscope/pkg/search"
)

type Server struct {
	Engine   *search.Engine
	Username string
	Password string
}

func New(engine *search.Engine, user, pass string) *Server {
	return &Server{
		Engine:   engine,
		Username: user,
		Password: pass,
	}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	// API Group
	mux.HandleFunc("GET /api/events", s.basicAuth(s.handleEvents))
	mux.HandleFunc("GET /api/flights", s.basicAuth(s.handleFlights))
	mux.HandleFunc("GET /api/flights/routes", s.basicAuth(s.handleRoutes))
	mux.HandleFunc("GET /api/flights/airlines", s.basicAuth(s.handleAirlines))
	mux.HandleFunc("POST /api/cache/clear", s.basicAuth(s.handleCacheClear))
	mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))

	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
