package interfaces

import (
	"context"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
	"github.com/Anoopsmohan/monstor-tickets/pkg/pagination"
)

// TicketSource is a lazy, owner scoped ticket query in stable insertion order
type TicketSource = pagination.Source[*model.Ticket]

// TicketRepository defines the interface for Ticket data access.
// Every read and write is scoped to the owning user: a ticket owned by
// someone else, an unknown ID, and a malformed ID all yield
// model.ErrTicketNotFound.
type TicketRepository interface {
	// Create stores a new ticket and assigns its ID and timestamps
	Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error)

	// Get retrieves a ticket owned by owner
	Get(ctx context.Context, owner types.UserID, id types.TicketID) (*model.Ticket, error)

	// List returns the tickets owned by owner, oldest first
	List(ctx context.Context, owner types.UserID) TicketSource

	// AppendComment atomically appends c to the comment thread of a ticket
	// owned by owner and returns the updated ticket
	AppendComment(ctx context.Context, owner types.UserID, id types.TicketID, c model.Comment) (*model.Ticket, error)
}
