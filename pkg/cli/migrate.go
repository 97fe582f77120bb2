package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Anoopsmohan/monstor-tickets/pkg/repository/firestore"
	"github.com/Anoopsmohan/monstor-tickets/pkg/repository/postgres"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/logging"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/safe"
)

func cmdMigrate() *cli.Command {
	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Prepare the storage backend",
		Commands: []*cli.Command{
			cmdMigrateFirestore(),
			cmdMigratePostgres(),
		},
	}
}

func cmdMigrateFirestore() *cli.Command {
	var projectID string
	var databaseID string
	var collectionPrefix string
	var dryRun bool

	return &cli.Command{
		Name:  "firestore",
		Usage: "Migrate Firestore indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("MONSTOR_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("MONSTOR_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "firestore-collection-prefix",
				Usage:       "Prefix for Firestore collection names",
				Sources:     cli.EnvVars("MONSTOR_FIRESTORE_COLLECTION_PREFIX"),
				Destination: &collectionPrefix,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"collectionPrefix", collectionPrefix,
				"dryRun", dryRun)

			indexConfig := getIndexConfig(collectionPrefix)

			client, err := fireconf.NewClient(ctx, projectID, databaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer safe.Close(ctx, client)

			if dryRun {
				logger.Info("Dry run mode - previewing changes")
				plan, err := client.GetMigrationPlan(ctx, indexConfig)
				if err != nil {
					return goerr.Wrap(err, "failed to create migration plan")
				}

				if len(plan.Steps) == 0 {
					logger.Info("No changes required")
					return nil
				}

				for _, step := range plan.Steps {
					logger.Info("Migration step",
						"collection", step.Collection,
						"operation", step.Operation,
						"description", step.Description,
						"destructive", step.Destructive)
				}
				return nil
			}

			logger.Info("Applying migrations")
			if err := client.Migrate(ctx, indexConfig); err != nil {
				return goerr.Wrap(err, "failed to apply migrations")
			}
			logger.Info("Migrations applied successfully")
			return nil
		},
	}
}

// getIndexConfig returns the Firestore index configuration
func getIndexConfig(prefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: firestore.TicketsCollectionName(prefix),
				Indexes: []fireconf.Index{
					// List: Owner ==, ordered by CreatedAt then document ID
					{
						Fields: []fireconf.IndexField{
							{Path: "Owner", Order: fireconf.OrderAscending},
							{Path: "CreatedAt", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}

func cmdMigratePostgres() *cli.Command {
	var dsn string
	var printOnly bool

	return &cli.Command{
		Name:  "postgres",
		Usage: "Create the PostgreSQL schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "postgres-dsn",
				Usage:       "PostgreSQL connection string",
				Sources:     cli.EnvVars("MONSTOR_POSTGRES_DSN"),
				Destination: &dsn,
			},
			&cli.BoolFlag{
				Name:        "print",
				Usage:       "Print the schema instead of applying it",
				Destination: &printOnly,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if printOnly {
				safe.Println(ctx, c.Root().Writer, postgres.Schema)
				return nil
			}
			if dsn == "" {
				return goerr.New("postgres-dsn is required")
			}

			repo, err := postgres.New(ctx, dsn)
			if err != nil {
				return goerr.Wrap(err, "failed to connect to postgres")
			}
			defer safe.Close(ctx, repo)

			if err := repo.Migrate(ctx); err != nil {
				return err
			}
			logging.Default().Info("PostgreSQL schema applied")
			return nil
		},
	}
}
