package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
)

// Ticket is a support request owned by the user who created it.
// Comments are embedded values kept in insertion order and only ever
// appended to.
type Ticket struct {
	ID         types.TicketID
	Subject    string
	Message    string
	Status     types.TicketStatus
	Owner      types.UserID
	AssignedTo types.UserID // empty when unassigned
	Comments   []Comment
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Comment is a status-tagged note on a ticket. Its status is tracked
// independently and never changes Ticket.Status.
type Comment struct {
	Author    types.UserID
	Text      string
	Status    types.TicketStatus
	CreatedAt time.Time
}

// Validate checks the invariants a ticket must hold before it is stored.
func (t *Ticket) Validate() error {
	if t.Subject == "" {
		return goerr.New("ticket subject is required")
	}
	if t.Message == "" {
		return goerr.New("ticket message is required")
	}
	if !t.Status.IsValid() {
		return goerr.New("invalid ticket status", goerr.V(StatusKey, t.Status))
	}
	if t.Owner.IsZero() {
		return goerr.New("ticket owner is required")
	}
	return nil
}

// Validate checks the invariants a comment must hold before it is appended.
func (c *Comment) Validate() error {
	if c.Text == "" {
		return goerr.New("comment text is required")
	}
	if !c.Status.IsValid() {
		return goerr.New("invalid comment status", goerr.V(StatusKey, c.Status))
	}
	if c.Author.IsZero() {
		return goerr.New("comment author is required")
	}
	return nil
}

// AppendComment adds c to the end of the comment thread.
func (t *Ticket) AppendComment(c Comment) {
	t.Comments = append(t.Comments, c)
}

// Clone returns a deep copy so stores never share comment slices with callers.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	cloned := *t
	if t.Comments != nil {
		cloned.Comments = make([]Comment, len(t.Comments))
		copy(cloned.Comments, t.Comments)
	}
	return &cloned
}

// AssertOwnedBy is the single ownership check used by every store
// operation. A nil ticket and a ticket owned by someone else produce the
// same error, so callers cannot learn whether a foreign ticket exists.
func AssertOwnedBy(t *Ticket, user types.UserID) error {
	if t == nil || user.IsZero() || t.Owner != user {
		return goerr.Wrap(ErrTicketNotFound, "ticket not found")
	}
	return nil
}
