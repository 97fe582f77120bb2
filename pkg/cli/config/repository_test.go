package config_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Anoopsmohan/monstor-tickets/pkg/cli/config"
)

func TestRepository_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory backend", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest(config.BackendMemory).Configure(ctx)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close())
	})

	t.Run("firestore without project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest(config.BackendFirestore).Configure(ctx)
		gt.Error(t, err)
	})

	t.Run("postgres without DSN", func(t *testing.T) {
		_, err := config.NewRepositoryForTest(config.BackendPostgres).Configure(ctx)
		gt.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("mysql").Configure(ctx)
		gt.Error(t, err)
	})
}
