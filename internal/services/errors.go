// Package services defines the business logic for partner profiles, leads,
// training, chat, and post-sale support. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// Only validation and not-found conditions surface as errors. Remote
// (database) failures never do: every operation either degrades to the
// in-memory fallback store or logs and no-ops, per the availability-first
// contract of the dashboard. Translation into HTTP status codes is performed
// at the handler layer.
package services

import "errors"

var (
	// ErrPartnerNotFound indicates the partner ID is absent from both the
	// database and the fallback store.
	ErrPartnerNotFound = errors.New("partner not found")

	// ErrLeadNotFound indicates the requested lead does not exist.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrModuleNotFound indicates the requested training module does not exist.
	ErrModuleNotFound = errors.New("training module not found")

	// ErrInvalidStatus is returned when a lead status update carries a value
	// outside the allowed set (hot, warm, cold, contacted).
	ErrInvalidStatus = errors.New("invalid lead status")

	// ErrInvalidScore is returned when a quiz score is outside [0,100].
	ErrInvalidScore = errors.New("quiz score must be between 0 and 100")

	// ErrEmptyMessage is returned when a chat append carries no text.
	ErrEmptyMessage = errors.New("message text is empty")

	// ErrInvalidSender is returned when a chat message sender is not one of
	// user, customer, or ai.
	ErrInvalidSender = errors.New("invalid message sender")
)
