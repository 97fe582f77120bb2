package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/interfaces"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
)

const ticketColumns = `id::text, owner_id, subject, message, status, COALESCE(assigned_to, ''), comments, created_at, updated_at`

type commentRow struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.TicketRepository = &ticketRepository{}

func newTicketRepository(pool *pgxpool.Pool) *ticketRepository {
	return &ticketRepository{pool: pool}
}

func notFound(id types.TicketID) error {
	return goerr.Wrap(model.ErrTicketNotFound, "ticket not found", goerr.V(model.TicketIDKey, id))
}

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var (
		t            model.Ticket
		id, owner    string
		status       string
		assignedTo   string
		commentsJSON []byte
	)
	if err := row.Scan(&id, &owner, &t.Subject, &t.Message, &status, &assignedTo, &commentsJSON, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	var rows []commentRow
	if err := json.Unmarshal(commentsJSON, &rows); err != nil {
		return nil, goerr.Wrap(err, "failed to decode comments", goerr.V(model.TicketIDKey, id))
	}

	t.ID = types.TicketID(id)
	t.Owner = types.UserID(owner)
	t.Status = types.TicketStatus(status)
	t.AssignedTo = types.UserID(assignedTo)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	t.Comments = make([]model.Comment, len(rows))
	for i, c := range rows {
		t.Comments[i] = model.Comment{
			Author:    types.UserID(c.Author),
			Text:      c.Text,
			Status:    types.TicketStatus(c.Status),
			CreatedAt: c.CreatedAt.UTC(),
		}
	}
	return &t, nil
}

func nullIfEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func (r *ticketRepository) Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	if err := t.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid ticket")
	}

	now := time.Now().UTC()
	id := types.NewTicketID()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO tickets (id, owner_id, subject, message, status, assigned_to, comments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, '[]'::jsonb, $7, $7)
		RETURNING `+ticketColumns,
		id.String(), t.Owner.String(), t.Subject, t.Message, t.Status.String(), nullIfEmpty(t.AssignedTo.String()), now)

	created, err := scanTicket(row)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create ticket", goerr.V(model.TicketIDKey, id))
	}
	return created, nil
}

func (r *ticketRepository) Get(ctx context.Context, owner types.UserID, id types.TicketID) (*model.Ticket, error) {
	if err := id.Validate(); err != nil {
		return nil, notFound(id)
	}

	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id.String())
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, goerr.Wrap(err, "failed to get ticket", goerr.V(model.TicketIDKey, id))
	}

	if err := model.AssertOwnedBy(t, owner); err != nil {
		return nil, notFound(id)
	}
	return t, nil
}

func (r *ticketRepository) List(ctx context.Context, owner types.UserID) interfaces.TicketSource {
	return &ticketSource{pool: r.pool, owner: owner}
}

// AppendComment appends with a single UPDATE so concurrent appends on the
// same row are serialized by the row lock and none is lost.
func (r *ticketRepository) AppendComment(ctx context.Context, owner types.UserID, id types.TicketID, c model.Comment) (*model.Ticket, error) {
	if err := c.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid comment", goerr.V(model.TicketIDKey, id))
	}
	if err := id.Validate(); err != nil {
		return nil, notFound(id)
	}

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	encoded, err := json.Marshal(commentRow{
		Author:    c.Author.String(),
		Text:      c.Text,
		Status:    c.Status.String(),
		CreatedAt: c.CreatedAt,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode comment")
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE tickets
		SET comments = comments || jsonb_build_array($3::jsonb), updated_at = $4
		WHERE id = $1 AND owner_id = $2
		RETURNING `+ticketColumns,
		id.String(), owner.String(), string(encoded), now)

	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, goerr.Wrap(err, "failed to append comment", goerr.V(model.TicketIDKey, id))
	}

	if err := model.AssertOwnedBy(t, owner); err != nil {
		return nil, notFound(id)
	}
	return t, nil
}

type ticketSource struct {
	pool  *pgxpool.Pool
	owner types.UserID
}

func (s *ticketSource) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM tickets WHERE owner_id = $1`, s.owner.String()).Scan(&n); err != nil {
		return 0, goerr.Wrap(err, "failed to count tickets", goerr.V(model.UserIDKey, s.owner))
	}
	return n, nil
}

func (s *ticketSource) Slice(ctx context.Context, offset, limit int) ([]*model.Ticket, error) {
	if limit <= 0 {
		return []*model.Ticket{}, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE owner_id = $1
		ORDER BY seq
		LIMIT $2 OFFSET $3`,
		s.owner.String(), limit, offset)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query tickets", goerr.V(model.UserIDKey, s.owner))
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0, limit)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan ticket", goerr.V(model.UserIDKey, s.owner))
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate tickets", goerr.V(model.UserIDKey, s.owner))
	}

	return tickets, nil
}
