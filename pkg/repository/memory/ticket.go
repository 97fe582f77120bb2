package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/interfaces"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
)

type ticketRepository struct {
	mu      sync.RWMutex
	tickets map[types.TicketID]*model.Ticket
	byOwner map[types.UserID][]types.TicketID // insertion order
}

var _ interfaces.TicketRepository = &ticketRepository{}

func newTicketRepository() *ticketRepository {
	return &ticketRepository{
		tickets: make(map[types.TicketID]*model.Ticket),
		byOwner: make(map[types.UserID][]types.TicketID),
	}
}

func notFound(id types.TicketID) error {
	return goerr.Wrap(model.ErrTicketNotFound, "ticket not found", goerr.V(model.TicketIDKey, id))
}

func (r *ticketRepository) Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	if err := t.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid ticket")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := t.Clone()
	created.ID = types.NewTicketID()
	created.Comments = []model.Comment{}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.tickets[created.ID] = created
	r.byOwner[created.Owner] = append(r.byOwner[created.Owner], created.ID)

	return created.Clone(), nil
}

// lookup returns the stored ticket if owner may see it. Callers hold r.mu.
func (r *ticketRepository) lookup(owner types.UserID, id types.TicketID) (*model.Ticket, error) {
	if err := id.Validate(); err != nil {
		return nil, notFound(id)
	}
	t := r.tickets[id]
	if err := model.AssertOwnedBy(t, owner); err != nil {
		return nil, notFound(id)
	}
	return t, nil
}

func (r *ticketRepository) Get(ctx context.Context, owner types.UserID, id types.TicketID) (*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, err := r.lookup(owner, id)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (r *ticketRepository) List(ctx context.Context, owner types.UserID) interfaces.TicketSource {
	return &ticketSource{repo: r, owner: owner}
}

func (r *ticketRepository) AppendComment(ctx context.Context, owner types.UserID, id types.TicketID, c model.Comment) (*model.Ticket, error) {
	if err := c.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid comment", goerr.V(model.TicketIDKey, id))
	}

	// The write lock serializes appends, so concurrent comments on one
	// ticket are never lost.
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.lookup(owner, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	t.AppendComment(c)
	t.UpdatedAt = now

	return t.Clone(), nil
}

// ticketSource evaluates the owner's ticket list lazily on every call.
type ticketSource struct {
	repo  *ticketRepository
	owner types.UserID
}

func (s *ticketSource) Count(ctx context.Context) (int, error) {
	s.repo.mu.RLock()
	defer s.repo.mu.RUnlock()
	return len(s.repo.byOwner[s.owner]), nil
}

func (s *ticketSource) Slice(ctx context.Context, offset, limit int) ([]*model.Ticket, error) {
	s.repo.mu.RLock()
	defer s.repo.mu.RUnlock()

	ids := s.repo.byOwner[s.owner]
	if offset < 0 || offset >= len(ids) || limit <= 0 {
		return []*model.Ticket{}, nil
	}
	end := min(offset+limit, len(ids))

	out := make([]*model.Ticket, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, s.repo.tickets[id].Clone())
	}
	return out, nil
}
