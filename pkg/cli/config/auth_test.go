package config_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/Anoopsmohan/monstor-tickets/pkg/cli/config"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/auth"
)

func TestAuth_Configure(t *testing.T) {
	secret := strings.Repeat("a", 32)

	t.Run("session auth with a valid secret", func(t *testing.T) {
		cfg := config.NewAuthForTest(secret, time.Hour, "")
		uc, err := cfg.Configure(&config.App{})
		gt.NoError(t, err).Required()
		gt.Bool(t, uc.IsNoAuthn()).False()

		session, err := uc.IssueToken(context.Background(), &auth.User{ID: "alice"})
		gt.NoError(t, err).Required()
		gt.Bool(t, session.ExpiresAt.Before(time.Now().Add(time.Hour+time.Minute))).True()
	})

	t.Run("short secret is refused", func(t *testing.T) {
		cfg := config.NewAuthForTest("short", time.Hour, "")
		_, err := cfg.Configure(&config.App{})
		gt.Bool(t, errors.Is(err, config.ErrInvalidSecret)).True()
	})

	t.Run("no-auth mode uses the directory entry", func(t *testing.T) {
		cfg := config.NewAuthForTest("", time.Hour, "alice")
		uc, err := cfg.Configure(&config.App{
			Users: []config.User{{ID: "alice", Name: "Alice", PasswordHash: "x"}},
		})
		gt.NoError(t, err).Required()
		gt.Bool(t, uc.IsNoAuthn()).True()

		user, err := uc.ValidateToken(context.Background(), "")
		gt.NoError(t, err).Required()
		gt.Value(t, user.Name).Equal("Alice")
	})
}
