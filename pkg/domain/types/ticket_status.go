package types

import "fmt"

// TicketStatus is the status of a ticket or of a comment posted on it.
// Any status may follow any other; no transition order is enforced.
type TicketStatus string

const (
	TicketStatusNew      TicketStatus = "new"
	TicketStatusProgress TicketStatus = "progress"
	TicketStatusClosed   TicketStatus = "closed"
)

// AllTicketStatuses returns all valid statuses in display order
func AllTicketStatuses() []TicketStatus {
	return []TicketStatus{
		TicketStatusNew,
		TicketStatusProgress,
		TicketStatusClosed,
	}
}

// IsValid checks if the status is one of the known values
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusNew,
		TicketStatusProgress,
		TicketStatusClosed:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as TicketStatusNew.
// Only ticket creation defaults the status; comments never do.
func (s TicketStatus) Normalize() TicketStatus {
	if s == "" {
		return TicketStatusNew
	}
	return s
}

// Label returns the default human readable name of the status
func (s TicketStatus) Label() string {
	switch s {
	case TicketStatusNew:
		return "New"
	case TicketStatusProgress:
		return "Progress"
	case TicketStatusClosed:
		return "Closed"
	default:
		return string(s)
	}
}

func (s TicketStatus) String() string {
	return string(s)
}

// ParseTicketStatus parses a string into a TicketStatus
func ParseTicketStatus(s string) (TicketStatus, error) {
	status := TicketStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return status, nil
}
