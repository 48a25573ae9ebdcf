package handler

import (
	"net/http"

	"github.com/gbax/gbax-core/internal/progress"
)

// SyncNowRequest represents the body for an explicit sync call
type SyncNowRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

// HandleSyncNow pushes the player's progress to the remote ledger. The call
// always succeeds at the HTTP level; remote failures show up in the result.
func HandleSyncNow(sync *progress.Synchronizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SyncNowRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sync now"); err != nil {
			return
		}

		result := sync.SyncNow(r.Context(), req.PlayerID)
		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}

// HandleGetSyncStatus returns the player's latest sync record
func HandleGetSyncStatus(sync *progress.Synchronizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: sync.Record(playerID)})
	}
}
