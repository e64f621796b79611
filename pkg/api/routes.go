package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// API routes with method-specific routing
	mux.HandleFunc("GET /api/datasets", s.HandleListDatasets)
	mux.HandleFunc("GET /api/datasets/{name}", s.HandleDataset)
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/stats", s.HandleStats)
	mux.HandleFunc("GET /api/firehose/ws", s.HandleFirehoseWS)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
