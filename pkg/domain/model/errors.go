package model

import "errors"

var (
	ErrTicketNotFound = errors.New("ticket not found")
)

// Context keys for error values
const (
	TicketIDKey = "ticket_id"
	UserIDKey   = "user_id"
	StatusKey   = "status"
)
