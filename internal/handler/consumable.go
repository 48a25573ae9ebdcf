package handler

import (
	"net/http"

	"github.com/gbax/gbax-core/internal/consumable"
	"github.com/gbax/gbax-core/internal/logger"
)

// UseConsumableRequest represents the body for consuming an item
type UseConsumableRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	ItemKey  string `json:"item_key" validate:"required,max=64"`
}

// HandleUseConsumable spends one item and activates its timed effect
func HandleUseConsumable(consumables consumable.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UseConsumableRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Use consumable"); err != nil {
			return
		}

		eff, err := consumables.Use(r.Context(), req.PlayerID, req.ItemKey)
		if err != nil {
			respondServiceError(w, r, ErrMsgUseItemFailed, err)
			return
		}

		logger.FromContext(r.Context()).Info("Effect activated",
			"playerID", req.PlayerID, "itemKey", req.ItemKey, "domain", eff.Domain)
		respondJSON(w, http.StatusCreated, DataResponse{Data: eff})
	}
}

// HandleGetCatalog lists the consumables the tuning defines
func HandleGetCatalog(consumables consumable.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: consumables.Catalog()})
	}
}
