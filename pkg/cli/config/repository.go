package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/interfaces"
	"github.com/Anoopsmohan/monstor-tickets/pkg/repository/firestore"
	"github.com/Anoopsmohan/monstor-tickets/pkg/repository/memory"
	"github.com/Anoopsmohan/monstor-tickets/pkg/repository/postgres"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/logging"
)

// Repository backends
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
	postgresDSN      string
	migrate          bool
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Category:    "Repository",
			Usage:       "Repository backend type (memory, firestore or postgres)",
			Value:       BackendMemory,
			Sources:     cli.EnvVars("MONSTOR_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Category:    "Repository",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("MONSTOR_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Category:    "Repository",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("MONSTOR_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Category:    "Repository",
			Usage:       "Prefix for Firestore collection names",
			Sources:     cli.EnvVars("MONSTOR_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
		&cli.StringFlag{
			Name:        "postgres-dsn",
			Category:    "Repository",
			Usage:       "PostgreSQL connection string (required when using postgres backend)",
			Sources:     cli.EnvVars("MONSTOR_POSTGRES_DSN"),
			Destination: &r.postgresDSN,
		},
		&cli.BoolFlag{
			Name:        "postgres-migrate",
			Category:    "Repository",
			Usage:       "Create the PostgreSQL schema on startup",
			Sources:     cli.EnvVars("MONSTOR_POSTGRES_MIGRATE"),
			Destination: &r.migrate,
		},
	}
}

func (r *Repository) Backend() string {
	return r.backend
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case BackendFirestore:
		if r.projectID == "" {
			return nil, goerr.New("firestore-project-id is required when using firestore backend")
		}
		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case BackendPostgres:
		if r.postgresDSN == "" {
			return nil, goerr.New("postgres-dsn is required when using postgres backend")
		}
		repo, err := postgres.New(ctx, r.postgresDSN)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize postgres repository")
		}
		if r.migrate {
			if err := repo.Migrate(ctx); err != nil {
				_ = repo.Close()
				return nil, goerr.Wrap(err, "failed to migrate postgres schema")
			}
		}
		logging.Default().Info("Using PostgreSQL repository", "migrate", r.migrate)
		return repo, nil

	case BackendMemory:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}
