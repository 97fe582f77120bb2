package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/interfaces"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
)

// TicketsCollection is the collection name without prefix; the migrate
// command builds its index definitions from it.
const TicketsCollection = "tickets"

// ticketDoc is the Firestore document representation of model.Ticket.
// Comments are embedded as an array so a ticket and its thread are read
// and written as one document.
type ticketDoc struct {
	ID         string       `firestore:"ID"`
	Subject    string       `firestore:"Subject"`
	Message    string       `firestore:"Message"`
	Status     string       `firestore:"Status"`
	Owner      string       `firestore:"Owner"`
	AssignedTo string       `firestore:"AssignedTo,omitempty"`
	Comments   []commentDoc `firestore:"Comments"`
	CreatedAt  time.Time    `firestore:"CreatedAt"`
	UpdatedAt  time.Time    `firestore:"UpdatedAt"`
}

type commentDoc struct {
	Author    string    `firestore:"Author"`
	Text      string    `firestore:"Text"`
	Status    string    `firestore:"Status"`
	CreatedAt time.Time `firestore:"CreatedAt"`
}

func toTicketDoc(t *model.Ticket) *ticketDoc {
	comments := make([]commentDoc, len(t.Comments))
	for i, c := range t.Comments {
		comments[i] = commentDoc{
			Author:    c.Author.String(),
			Text:      c.Text,
			Status:    c.Status.String(),
			CreatedAt: c.CreatedAt,
		}
	}
	return &ticketDoc{
		ID:         t.ID.String(),
		Subject:    t.Subject,
		Message:    t.Message,
		Status:     t.Status.String(),
		Owner:      t.Owner.String(),
		AssignedTo: t.AssignedTo.String(),
		Comments:   comments,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func fromTicketDoc(d *ticketDoc) *model.Ticket {
	comments := make([]model.Comment, len(d.Comments))
	for i, c := range d.Comments {
		comments[i] = model.Comment{
			Author:    types.UserID(c.Author),
			Text:      c.Text,
			Status:    types.TicketStatus(c.Status),
			CreatedAt: c.CreatedAt,
		}
	}
	return &model.Ticket{
		ID:         types.TicketID(d.ID),
		Subject:    d.Subject,
		Message:    d.Message,
		Status:     types.TicketStatus(d.Status),
		Owner:      types.UserID(d.Owner),
		AssignedTo: types.UserID(d.AssignedTo),
		Comments:   comments,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type ticketRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.TicketRepository = &ticketRepository{}

func newTicketRepository(client *firestore.Client) *ticketRepository {
	return &ticketRepository{
		client:           client,
		collectionPrefix: "",
	}
}

// TicketsCollectionName returns the tickets collection name under prefix.
func TicketsCollectionName(prefix string) string {
	if prefix != "" {
		return prefix + "_" + TicketsCollection
	}
	return TicketsCollection
}

func (r *ticketRepository) ticketsCollection() *firestore.CollectionRef {
	return r.client.Collection(TicketsCollectionName(r.collectionPrefix))
}

func notFound(id types.TicketID) error {
	return goerr.Wrap(model.ErrTicketNotFound, "ticket not found", goerr.V(model.TicketIDKey, id))
}

func (r *ticketRepository) Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	if err := t.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid ticket")
	}

	now := time.Now().UTC()
	created := t.Clone()
	created.ID = types.NewTicketID()
	created.Comments = []model.Comment{}
	created.CreatedAt = now
	created.UpdatedAt = now

	// Create fails if the ID is already taken instead of overwriting it.
	if _, err := r.ticketsCollection().Doc(created.ID.String()).Create(ctx, toTicketDoc(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create ticket", goerr.V(model.TicketIDKey, created.ID))
	}

	return created, nil
}

func (r *ticketRepository) Get(ctx context.Context, owner types.UserID, id types.TicketID) (*model.Ticket, error) {
	if err := id.Validate(); err != nil {
		return nil, notFound(id)
	}

	docSnap, err := r.ticketsCollection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, notFound(id)
		}
		return nil, goerr.Wrap(err, "failed to get ticket", goerr.V(model.TicketIDKey, id))
	}

	var d ticketDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode ticket", goerr.V(model.TicketIDKey, id))
	}

	t := fromTicketDoc(&d)
	if err := model.AssertOwnedBy(t, owner); err != nil {
		return nil, notFound(id)
	}
	return t, nil
}

func (r *ticketRepository) List(ctx context.Context, owner types.UserID) interfaces.TicketSource {
	return &ticketSource{repo: r, owner: owner}
}

func (r *ticketRepository) AppendComment(ctx context.Context, owner types.UserID, id types.TicketID, c model.Comment) (*model.Ticket, error) {
	if err := c.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid comment", goerr.V(model.TicketIDKey, id))
	}
	if err := id.Validate(); err != nil {
		return nil, notFound(id)
	}

	docRef := r.ticketsCollection().Doc(id.String())

	// The read-modify-write runs in a transaction; Firestore retries it when
	// another append touched the same document in between.
	var updated *model.Ticket
	var missing bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		missing = false

		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				missing = true
				return nil
			}
			return goerr.Wrap(err, "failed to get ticket")
		}

		var d ticketDoc
		if err := docSnap.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to decode ticket")
		}

		t := fromTicketDoc(&d)
		if err := model.AssertOwnedBy(t, owner); err != nil {
			missing = true
			return nil
		}

		now := time.Now().UTC()
		comment := c
		if comment.CreatedAt.IsZero() {
			comment.CreatedAt = now
		}
		t.AppendComment(comment)
		t.UpdatedAt = now

		if err := tx.Set(docRef, toTicketDoc(t)); err != nil {
			return goerr.Wrap(err, "failed to write ticket")
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to append comment", goerr.V(model.TicketIDKey, id))
	}
	if missing {
		return nil, notFound(id)
	}

	return updated, nil
}

// ticketSource runs the owner scoped query on demand. Ordering by creation
// time with the document ID as tie breaker keeps pages stable.
type ticketSource struct {
	repo  *ticketRepository
	owner types.UserID
}

func (s *ticketSource) query() firestore.Query {
	return s.repo.ticketsCollection().Where("Owner", "==", s.owner.String())
}

func (s *ticketSource) Count(ctx context.Context) (int, error) {
	results, err := s.query().NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count tickets", goerr.V(model.UserIDKey, s.owner))
	}

	raw, ok := results["total"]
	if !ok {
		return 0, goerr.New("count result missing", goerr.V(model.UserIDKey, s.owner))
	}
	v, ok := raw.(*firestorepb.Value)
	if !ok {
		return 0, goerr.New("unexpected count result type", goerr.V("value", raw))
	}

	return int(v.GetIntegerValue()), nil
}

func (s *ticketSource) Slice(ctx context.Context, offset, limit int) ([]*model.Ticket, error) {
	if limit <= 0 {
		return []*model.Ticket{}, nil
	}

	iter := s.query().
		OrderBy("CreatedAt", firestore.Asc).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Offset(offset).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	tickets := make([]*model.Ticket, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate tickets", goerr.V(model.UserIDKey, s.owner))
		}

		var d ticketDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode ticket", goerr.V("doc_id", doc.Ref.ID))
		}
		tickets = append(tickets, fromTicketDoc(&d))
	}

	return tickets, nil
}
