package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Operation error messages
	ErrMsgStartOperationFailed  = "Failed to start operation"
	ErrMsgCancelOperationFailed = "Failed to cancel operation"
	ErrMsgInvalidOperationID    = "Invalid operation ID"

	// Consumable error messages
	ErrMsgUseItemFailed = "Failed to use item"

	// Sector error messages
	ErrMsgGenerateSectorFailed = "Failed to generate sector"
	ErrMsgSectorNotFoundHTTP   = "Sector not found"

	// Guild error messages
	ErrMsgJoinGuildFailed  = "Failed to join guild"
	ErrMsgLeaveGuildFailed = "Failed to leave guild"
	ErrMsgListGuildsFailed = "Failed to list guilds"

	// Mission error messages
	ErrMsgCreateMissionFailed = "Failed to create mission"
	ErrMsgListMissionsFailed  = "Failed to list missions"

	// Player error messages
	ErrMsgRegisterPlayerFailed = "Failed to register player"
	ErrMsgGetPlayerFailed      = "Failed to get player"
	ErrMsgAssignTraitFailed    = "Failed to assign trait"
)

// Success messages for API responses
const (
	MsgOperationCancelled = "Operation cancelled"
	MsgGuildJoined        = "Joined guild"
	MsgGuildLeft          = "Left guild"
	MsgTraitAssigned      = "Trait assigned"
)
