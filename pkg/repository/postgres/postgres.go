package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/interfaces"
)

// Schema creates the tables used by the repository. Comments live in a
// JSONB array on the ticket row so a ticket and its thread are one record.
const Schema = `
CREATE TABLE IF NOT EXISTS tickets (
	id          UUID PRIMARY KEY,
	seq         BIGSERIAL NOT NULL UNIQUE,
	owner_id    TEXT NOT NULL,
	subject     TEXT NOT NULL CHECK (subject <> ''),
	message     TEXT NOT NULL CHECK (message <> ''),
	status      TEXT NOT NULL CHECK (status IN ('new', 'progress', 'closed')),
	assigned_to TEXT,
	comments    JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS tickets_owner_seq_idx ON tickets (owner_id, seq);
`

type Postgres struct {
	pool   *pgxpool.Pool
	ticket *ticketRepository
}

var _ interfaces.Repository = &Postgres{}

// New opens a connection pool for dsn and verifies connectivity.
func New(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to connect to postgres")
	}

	return &Postgres{
		pool:   pool,
		ticket: newTicketRepository(pool),
	}, nil
}

// Migrate applies Schema. It is idempotent.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, Schema); err != nil {
		return goerr.Wrap(err, "failed to apply schema")
	}
	return nil
}

func (p *Postgres) Ticket() interfaces.TicketRepository {
	return p.ticket
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
