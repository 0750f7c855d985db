package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Oracle errors
	ErrMsgItemNotFound = "item not found"

	// Ledger errors
	ErrMsgDuplicateEntry = "entry already logged"
	ErrMsgEventNotOwned  = "event not found or not owned by caller"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Oracle errors
	ErrItemNotFound = errors.New(ErrMsgItemNotFound)

	// Ledger errors
	ErrDuplicateEntry = errors.New(ErrMsgDuplicateEntry)
	ErrEventNotOwned  = errors.New(ErrMsgEventNotOwned)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
