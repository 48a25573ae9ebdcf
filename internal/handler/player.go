package handler

import (
	"net/http"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/loyalty"
	"github.com/gbax/gbax-core/internal/player"
	"github.com/gbax/gbax-core/internal/trait"
)

// RegisterPlayerRequest represents the body for registering a player
type RegisterPlayerRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=64"`
	Name     string `json:"name" validate:"required,max=64"`
}

// HandleRegisterPlayer creates the player record if it does not exist
func HandleRegisterPlayer(players player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPlayerRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Register player"); err != nil {
			return
		}

		p, err := players.GetOrCreate(r.Context(), req.PlayerID, req.Name)
		if err != nil {
			respondServiceError(w, r, ErrMsgRegisterPlayerFailed, err)
			return
		}

		respondJSON(w, http.StatusCreated, DataResponse{Data: p})
	}
}

// PlayerProfileResponse augments the player record with its loyalty tier
type PlayerProfileResponse struct {
	Player      *domain.Player `json:"player"`
	LoyaltyTier string         `json:"loyalty_tier"`
}

// HandleGetPlayer returns the player profile
func HandleGetPlayer(players player.Service, loyaltySvc loyalty.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		p, err := players.Get(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetPlayerFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, PlayerProfileResponse{
			Player:      p,
			LoyaltyTier: loyaltySvc.TierFor(p.LoyaltyPoints).Name,
		})
	}
}

// AssignTraitRequest represents the body for assigning a trait
type AssignTraitRequest struct {
	PlayerID     string  `json:"player_id" validate:"required"`
	Key          string  `json:"key" validate:"required,max=64"`
	Name         string  `json:"name" validate:"required,max=64"`
	Domain       string  `json:"domain" validate:"required,bonusdomain"`
	BonusPercent float64 `json:"bonus_percent" validate:"min=0,max=100"`
}

// HandleAssignTrait attaches a trait to the player
func HandleAssignTrait(traits trait.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AssignTraitRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Assign trait"); err != nil {
			return
		}

		t := domain.Trait{
			Key:          req.Key,
			Name:         req.Name,
			Domain:       domain.BonusDomain(req.Domain),
			BonusPercent: req.BonusPercent,
		}
		if err := traits.Assign(r.Context(), req.PlayerID, t); err != nil {
			respondServiceError(w, r, ErrMsgAssignTraitFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgTraitAssigned})
	}
}
