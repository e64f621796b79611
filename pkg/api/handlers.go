package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rubiojr/quarry/pkg/search"
	"github.com/rubiojr/quarry/pkg/version"
)

func (s *Server) HandleListDatasets(w http.ResponseWriter, r *http.Request) {
	info := s.store.Info()

	response := ListDatasetsResponse{
		Datasets:       info.Datasets,
		Count:          info.TotalDatasets,
		TargetCapacity: info.TargetCapacity,
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleDataset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid path", "Dataset name is required")
		return
	}

	content, ok := s.store.Get(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Dataset not found", fmt.Sprintf("Dataset '%s' does not exist", name))
		return
	}

	text := content.String()
	response := DatasetResponse{
		Name:    name,
		Type:    content.Kind(),
		Size:    len(text),
		Content: text,
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := params.Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query parameter", "Query parameter 'q' is required")
		return
	}
	if err := s.cfg.ValidateQuery(query); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid query", err.Error())
		return
	}

	opts := search.Options{
		Type: params.Get("type"),
	}
	if v := params.Get("case_sensitive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid parameter", "case_sensitive must be a boolean")
			return
		}
		opts.CaseSensitive = b
	}
	if v := params.Get("regex"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid parameter", "regex must be a boolean")
			return
		}
		opts.Regex = b
	}
	if v := params.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid parameter", "limit must be an integer")
			return
		}
		if err := s.cfg.ValidateLimit(limit); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid limit", err.Error())
			return
		}
		opts.Limit = limit
	}

	result, err := s.engine.Search(query, opts)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Search failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Stats())
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
		Datasets:  s.store.Count(),
	}

	s.writeJSON(w, http.StatusOK, health)
}
