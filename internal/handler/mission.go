package handler

import (
	"net/http"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/mission"
)

// CreateMissionRequest represents the body for creating a mission
type CreateMissionRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Name     string `json:"name" validate:"required,max=128"`
	Kind     string `json:"kind" validate:"required,operationkind"`
	Target   int    `json:"target" validate:"required,min=1,max=100000"`
	RewardXP int    `json:"reward_xp" validate:"min=0,max=1000000"`
}

// HandleCreateMission creates an active mission for the player
func HandleCreateMission(missions mission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateMissionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Create mission"); err != nil {
			return
		}

		m, err := missions.Create(r.Context(), req.PlayerID, req.Name,
			domain.OperationKind(req.Kind), req.Target, req.RewardXP)
		if err != nil {
			respondServiceError(w, r, ErrMsgCreateMissionFailed, err)
			return
		}

		respondJSON(w, http.StatusCreated, DataResponse{Data: m})
	}
}

// HandleGetActiveMissions lists the player's active missions
func HandleGetActiveMissions(missions mission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		list, err := missions.Active(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, ErrMsgListMissionsFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: list})
	}
}
