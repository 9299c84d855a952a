package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when a user doesn't have permission for an action
	ErrForbidden = errors.New("permission denied")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidStage is returned when a stage value is not a known stage
	ErrInvalidStage = errors.New("invalid pipeline stage")

	// ErrInvalidTransition is returned when a stage move is not allowed
	ErrInvalidTransition = errors.New("stage transition not allowed")

	// ErrTerminalStage is returned when acting on a completed or lost client
	ErrTerminalStage = errors.New("client is in a terminal stage")

	// ErrAlreadySubmitted is returned when converting a lead whose profile
	// already has a pipeline client
	ErrAlreadySubmitted = errors.New("profile already has a submitted selection")

	// ErrQuoteNotEditable is returned when modifying a quote past draft
	ErrQuoteNotEditable = errors.New("quote can only be edited in draft status")

	// ErrInvalidQuoteTransition is returned for a disallowed quote status change
	ErrInvalidQuoteTransition = errors.New("quote status transition not allowed")

	// ErrUserInactive is returned when assigning work to a deactivated user
	ErrUserInactive = errors.New("user is deactivated")
)
