package handler

import (
	"net/http"

	"github.com/gbax/gbax-core/internal/logger"
	"github.com/gbax/gbax-core/internal/sector"
)

// GenerateSectorRequest represents the body for sector generation
type GenerateSectorRequest struct {
	Name              string  `json:"name" validate:"required,max=64"`
	Size              float64 `json:"size" validate:"required,gt=0"`
	AsteroidCount     int     `json:"asteroid_count" validate:"min=0,max=10000"`
	ResourceNodeCount int     `json:"resource_node_count" validate:"min=0,max=10000"`
	StationCount      int     `json:"station_count" validate:"min=0,max=100"`
	Density           float64 `json:"density" validate:"required,gt=0"`
	Seed              int64   `json:"seed"`
}

// HandleGenerateSector generates a sector and stores it for operation targeting
func HandleGenerateSector(store *sector.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenerateSectorRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Generate sector"); err != nil {
			return
		}

		sec, err := sector.Generate(sector.Config{
			Name:              req.Name,
			Size:              req.Size,
			AsteroidCount:     req.AsteroidCount,
			ResourceNodeCount: req.ResourceNodeCount,
			StationCount:      req.StationCount,
			Density:           req.Density,
			Seed:              req.Seed,
		})
		if err != nil {
			respondServiceError(w, r, ErrMsgGenerateSectorFailed, err)
			return
		}

		store.Put(sec)
		logger.FromContext(r.Context()).Info("Sector generated",
			"name", sec.Name, "seed", sec.Seed, "objects", len(sec.Objects))
		respondJSON(w, http.StatusCreated, DataResponse{Data: sec})
	}
}

// HandleGetSector returns a stored sector by name
func HandleGetSector(store *sector.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := GetQueryParam(r, w, "name")
		if !ok {
			return
		}

		sec := store.Get(name)
		if sec == nil {
			respondError(w, http.StatusNotFound, ErrMsgSectorNotFoundHTTP)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: sec})
	}
}
