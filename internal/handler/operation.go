package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/logger"
	"github.com/gbax/gbax-core/internal/operation"
)

// StartOperationRequest represents the body for starting a timed operation
type StartOperationRequest struct {
	PlayerID   string `json:"player_id" validate:"required"`
	Kind       string `json:"kind" validate:"required,operationkind"`
	TargetID   string `json:"target_id" validate:"required"`
	DurationMs int64  `json:"duration_ms" validate:"required,min=100"`
}

// OperationResponse is the wire shape of an operation
type OperationResponse struct {
	ID          string `json:"id"`
	PlayerID    string `json:"player_id"`
	TargetID    string `json:"target_id"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	DurationMs  int64  `json:"duration_ms"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	RemainingMs int64  `json:"remaining_ms"`
}

func toOperationResponse(op *domain.Operation) OperationResponse {
	return OperationResponse{
		ID:          op.ID.String(),
		PlayerID:    op.PlayerID,
		TargetID:    op.TargetID,
		Kind:        string(op.Kind),
		Status:      string(op.Status),
		DurationMs:  op.Duration.Milliseconds(),
		ElapsedMs:   op.Elapsed.Milliseconds(),
		RemainingMs: op.Remaining().Milliseconds(),
	}
}

// HandleStartOperation starts a mining or crafting operation
func HandleStartOperation(registry operation.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartOperationRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Start operation"); err != nil {
			return
		}

		op, err := registry.Start(r.Context(), req.PlayerID, domain.OperationKind(req.Kind),
			req.TargetID, time.Duration(req.DurationMs)*time.Millisecond)
		if err != nil {
			respondServiceError(w, r, ErrMsgStartOperationFailed, err)
			return
		}

		logger.FromContext(r.Context()).Info("Operation started",
			"operationID", op.ID, "playerID", req.PlayerID, "kind", req.Kind)
		respondJSON(w, http.StatusCreated, toOperationResponse(op))
	}
}

// CancelOperationRequest represents the body for cancelling an operation
type CancelOperationRequest struct {
	OperationID string `json:"operation_id" validate:"required,uuid"`
}

// HandleCancelOperation cancels a running operation without reward
func HandleCancelOperation(registry operation.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CancelOperationRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Cancel operation"); err != nil {
			return
		}

		id, err := uuid.Parse(req.OperationID)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidOperationID)
			return
		}

		if err := registry.Cancel(r.Context(), id); err != nil {
			respondServiceError(w, r, ErrMsgCancelOperationFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgOperationCancelled})
	}
}

// HandleGetActiveOperations lists a player's in-flight operations
func HandleGetActiveOperations(registry operation.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		ops := registry.Active(playerID)
		out := make([]OperationResponse, 0, len(ops))
		for _, op := range ops {
			out = append(out, toOperationResponse(op))
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: out})
	}
}
