package api

import (
	"encoding/json"
	"net/http"

	"github.com/rubiojr/quarry/pkg/config"
	"github.com/rubiojr/quarry/pkg/log"
	"github.com/rubiojr/quarry/pkg/realtime"
	"github.com/rubiojr/quarry/pkg/search"
	"github.com/rubiojr/quarry/pkg/storage"
)

type Server struct {
	store  *storage.Store
	engine *search.Engine
	hub    *realtime.Hub
	cfg    *config.Config
	logger *log.Logger
}

func NewServer(store *storage.Store, engine *search.Engine, hub *realtime.Hub, cfg *config.Config) *Server {
	return &Server{
		store:  store,
		engine: engine,
		hub:    hub,
		cfg:    cfg,
		logger: log.ForComponent("api"),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("Error encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
