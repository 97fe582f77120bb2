package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// ErrTicketNotFound covers missing tickets, malformed IDs and tickets
	// owned by another user alike.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrUnauthenticated means no user identity could be resolved.
	ErrUnauthenticated = errors.New("authentication required")
)

// Context keys for error values
const (
	TicketIDKey = "ticket_id"
	UserIDKey   = "user_id"
	PageKey     = "page"
)
