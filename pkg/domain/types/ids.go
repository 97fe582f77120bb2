package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TicketID identifies a ticket. Values are UUID strings assigned at creation.
type TicketID string

// NewTicketID returns a fresh random ticket ID
func NewTicketID() TicketID {
	return TicketID(uuid.NewString())
}

func (id TicketID) String() string {
	return string(id)
}

// Validate reports whether id is well formed. Stores treat a malformed ID
// exactly like an unknown one.
func (id TicketID) Validate() error {
	if id == "" {
		return goerr.New("ticket ID is empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "ticket ID is not a UUID", goerr.V("ticket_id", string(id)))
	}
	return nil
}

// UserID references an authenticated user. The empty value means unset.
type UserID string

func (id UserID) String() string {
	return string(id)
}

func (id UserID) IsZero() bool {
	return id == ""
}
