package handler

import (
	"net/http"

	"github.com/gbax/gbax-core/internal/guild"
)

// GuildMembershipRequest represents the body for join/leave calls
type GuildMembershipRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	GuildID  string `json:"guild_id"`
}

// HandleJoinGuild adds the player to a guild
func HandleJoinGuild(guilds guild.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuildMembershipRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Join guild"); err != nil {
			return
		}
		if req.GuildID == "" {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
			return
		}

		if err := guilds.Join(r.Context(), req.PlayerID, req.GuildID); err != nil {
			respondServiceError(w, r, ErrMsgJoinGuildFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgGuildJoined})
	}
}

// HandleLeaveGuild removes the player from their guild
func HandleLeaveGuild(guilds guild.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuildMembershipRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Leave guild"); err != nil {
			return
		}

		if err := guilds.Leave(r.Context(), req.PlayerID); err != nil {
			respondServiceError(w, r, ErrMsgLeaveGuildFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgGuildLeft})
	}
}

// HandleListGuilds returns all guilds with their benefits
func HandleListGuilds(guilds guild.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := guilds.List(r.Context())
		if err != nil {
			respondServiceError(w, r, ErrMsgListGuildsFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: list})
	}
}
