package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encode through a pooled buffer to reduce allocations.
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent; all we can do is log.
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgPlayerNotFoundError    = "Player not found"
	ErrMsgItemNotFoundError      = "Item not found"
	ErrMsgInsufficientItemsError = "Not enough items"
	ErrMsgCapacityExceededError  = "Too many operations of that kind already running"
	ErrMsgTargetDepletedError    = "Target is depleted or does not exist"
	ErrMsgTargetLockedError      = "Target is already being worked"
	ErrMsgOperationNotFoundError = "Operation not found"
	ErrMsgInvalidEffectError     = "Invalid effect"
	ErrMsgMissionNotFoundError   = "Mission not found"
	ErrMsgGuildNotFoundError     = "Guild not found"
	ErrMsgAlreadyInGuildError    = "Already in a guild"
	ErrMsgNotGuildMemberError    = "Not a guild member"
	ErrMsgInvalidConfigError     = "Invalid configuration"
	ErrMsgInvalidInputError      = "Invalid input. Please check your request."
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// messages users can act on.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrPlayerNotFound):
		return http.StatusNotFound, ErrMsgPlayerNotFoundError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusBadRequest, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return http.StatusBadRequest, ErrMsgInsufficientItemsError
	case errors.Is(err, domain.ErrCapacityExceeded):
		return http.StatusConflict, ErrMsgCapacityExceededError
	case errors.Is(err, domain.ErrTargetDepleted):
		return http.StatusBadRequest, ErrMsgTargetDepletedError
	case errors.Is(err, domain.ErrTargetLocked):
		return http.StatusConflict, ErrMsgTargetLockedError
	case errors.Is(err, domain.ErrOperationNotFound):
		return http.StatusNotFound, ErrMsgOperationNotFoundError
	case errors.Is(err, domain.ErrInvalidEffect):
		return http.StatusBadRequest, ErrMsgInvalidEffectError
	case errors.Is(err, domain.ErrMissionNotFound):
		return http.StatusNotFound, ErrMsgMissionNotFoundError
	case errors.Is(err, domain.ErrGuildNotFound):
		return http.StatusNotFound, ErrMsgGuildNotFoundError
	case errors.Is(err, domain.ErrAlreadyInGuild):
		return http.StatusConflict, ErrMsgAlreadyInGuildError
	case errors.Is(err, domain.ErrNotGuildMember):
		return http.StatusBadRequest, ErrMsgNotGuildMemberError
	case errors.Is(err, domain.ErrInvalidConfig):
		return http.StatusBadRequest, ErrMsgInvalidConfigError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError logs the failure and writes the mapped user response.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, message := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Warn(opName+" rejected", "error", err)
	}
	respondError(w, status, message)
}
