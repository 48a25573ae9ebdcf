package handler

import (
	"net/http"

	"github.com/gbax/gbax-core/internal/effect"
	"github.com/gbax/gbax-core/internal/reward"
)

// HandleGetBonuses returns the player's current per-domain multiplier snapshot
func HandleGetBonuses(rewards *reward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		snap := rewards.Snapshot(r.Context(), playerID)
		respondJSON(w, http.StatusOK, DataResponse{Data: snap})
	}
}

// HandleGetActiveEffects lists the player's non-expired effects
func HandleGetActiveEffects(effects effect.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: effects.ActiveEffects(playerID)})
	}
}
