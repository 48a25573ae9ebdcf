package handler

import (
	"net/http"
	"strconv"

	"github.com/gbax/gbax-core/internal/eventlog"
)

// HandleGetAuditLog returns recent persisted events, optionally filtered by
// player and event type.
func HandleGetAuditLog(audit eventlog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter eventlog.Filter

		if playerID := GetOptionalQueryParam(r, "player_id", ""); playerID != "" {
			filter.PlayerID = &playerID
		}
		if eventType := GetOptionalQueryParam(r, "type", ""); eventType != "" {
			filter.EventType = &eventType
		}
		if rawLimit := GetOptionalQueryParam(r, "limit", ""); rawLimit != "" {
			limit, err := strconv.Atoi(rawLimit)
			if err != nil || limit < 0 {
				http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
				return
			}
			filter.Limit = limit
		}

		entries, err := audit.Recent(r.Context(), filter)
		if err != nil {
			respondServiceError(w, r, "Get audit log", err)
			return
		}
		if entries == nil {
			entries = []eventlog.Entry{}
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: entries})
	}
}
