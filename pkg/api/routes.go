package api

import (
	"net/http"
)

// RegisterRoutes attaches the JSON API and live feed endpoints.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/table", s.HandleTable)
	mux.HandleFunc("POST /api/table/state", s.HandleState)
	mux.HandleFunc("POST /api/offer", s.HandleCreateOffer)
	mux.HandleFunc("POST /api/offer/{action}/{id}", s.HandleOfferAction)
	mux.HandleFunc("GET /api/live", s.HandleLive)
	mux.HandleFunc("GET /health", s.HandleHealth)
}

// RegisterUIRoutes attaches the HTML routes.
func (s *Server) RegisterUIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", s.HandleHome)
	mux.HandleFunc("GET /table", s.HandleTableFragment)
	mux.HandleFunc("GET /offer/{id}", s.HandleOfferDetail)
}
