package api

import (
	"time"

	"github.com/rubiojr/quarry/pkg/core"
)

type ListDatasetsResponse struct {
	Datasets       []core.DatasetInfo `json:"datasets"`
	Count          int                `json:"count"`
	TargetCapacity int                `json:"target_capacity"`
}

type DatasetResponse struct {
	Name    string    `json:"name"`
	Type    core.Kind `json:"type"`
	Size    int       `json:"size"`
	Content string    `json:"content"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Datasets  int       `json:"datasets"`
}
