package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Player errors
	ErrMsgPlayerNotFound = "player not found"

	// Operation errors
	ErrMsgCapacityExceeded  = "operation capacity exceeded"
	ErrMsgTargetDepleted    = "target is depleted"
	ErrMsgTargetLocked      = "target is already locked by another operation"
	ErrMsgOperationNotFound = "operation not found"

	// Effect errors
	ErrMsgInvalidEffect = "invalid effect"

	// Item errors
	ErrMsgItemNotFound         = "item not found"
	ErrMsgInsufficientQuantity = "insufficient quantity"

	// Mission errors
	ErrMsgMissionNotFound = "mission not found"

	// Guild errors
	ErrMsgGuildNotFound  = "guild not found"
	ErrMsgAlreadyInGuild = "player already belongs to a guild"
	ErrMsgNotGuildMember = "player is not a guild member"

	// Sync errors
	ErrMsgRemoteSyncFailed = "remote sync failed"

	// Generator errors
	ErrMsgInvalidConfig = "invalid sector configuration"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Player errors
	ErrPlayerNotFound = errors.New(ErrMsgPlayerNotFound)

	// Operation errors
	ErrCapacityExceeded  = errors.New(ErrMsgCapacityExceeded)
	ErrTargetDepleted    = errors.New(ErrMsgTargetDepleted)
	ErrTargetLocked      = errors.New(ErrMsgTargetLocked)
	ErrOperationNotFound = errors.New(ErrMsgOperationNotFound)

	// Effect errors
	ErrInvalidEffect = errors.New(ErrMsgInvalidEffect)

	// Item errors
	ErrItemNotFound         = errors.New(ErrMsgItemNotFound)
	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)

	// Mission errors
	ErrMissionNotFound = errors.New(ErrMsgMissionNotFound)

	// Guild errors
	ErrGuildNotFound  = errors.New(ErrMsgGuildNotFound)
	ErrAlreadyInGuild = errors.New(ErrMsgAlreadyInGuild)
	ErrNotGuildMember = errors.New(ErrMsgNotGuildMember)

	// Sync errors
	// RemoteSyncFailed is recorded, never propagated across the core boundary.
	ErrRemoteSyncFailed = errors.New(ErrMsgRemoteSyncFailed)

	// Generator errors
	ErrInvalidConfig = errors.New(ErrMsgInvalidConfig)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
