package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
	"github.com/Anoopsmohan/monstor-tickets/pkg/usecase"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/logging"
)

// Auth holds CLI flags for session authentication
type Auth struct {
	secret    string
	tokenTTL  time.Duration
	noAuthUID string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-secret",
			Category:    "Authentication",
			Usage:       "HMAC secret for session tokens (at least 32 bytes)",
			Sources:     cli.EnvVars("MONSTOR_AUTH_SECRET"),
			Destination: &x.secret,
		},
		&cli.DurationFlag{
			Name:        "auth-token-ttl",
			Category:    "Authentication",
			Usage:       "Lifetime of issued session tokens",
			Value:       usecase.DefaultTokenTTL,
			Sources:     cli.EnvVars("MONSTOR_AUTH_TOKEN_TTL"),
			Destination: &x.tokenTTL,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Category:    "Authentication",
			Usage:       "Skip authentication and act as the given user ID (development only)",
			Sources:     cli.EnvVars("MONSTOR_NO_AUTH"),
			Destination: &x.noAuthUID,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("secret_set", x.secret != ""),
		slog.Duration("token_ttl", x.tokenTTL),
		slog.String("no_auth", x.noAuthUID),
	)
}

func (x *Auth) IsNoAuthMode() bool {
	return x.noAuthUID != ""
}

// TokenIssuer builds the signing use case from the secret flags alone
func (x *Auth) TokenIssuer(opts ...usecase.AuthOption) (*usecase.AuthUseCase, error) {
	if len(x.secret) < 32 {
		return nil, goerr.Wrap(ErrInvalidSecret, "auth-secret is too short", goerr.V("length", len(x.secret)))
	}
	opts = append([]usecase.AuthOption{usecase.WithTokenTTL(x.tokenTTL)}, opts...)
	return usecase.NewAuthUseCase([]byte(x.secret), opts...)
}

// Configure returns the authentication use case for serving. Users listed
// in app may log in with their passwords.
func (x *Auth) Configure(app *App) (usecase.AuthUseCaseInterface, error) {
	if x.IsNoAuthMode() {
		name, email := x.noAuthUID, ""
		if cred, ok := app.Directory()[types.UserID(x.noAuthUID)]; ok {
			name, email = cred.User.Name, cred.User.Email
		}
		logging.Default().Warn("Running in no-auth mode (development only)", "user_id", x.noAuthUID)
		return usecase.NewNoAuthnUseCase(x.noAuthUID, name, email), nil
	}

	uc, err := x.TokenIssuer(usecase.WithDirectory(app.Directory()))
	if err != nil {
		return nil, err
	}
	logging.Default().Info("Session authentication enabled", "users", len(app.Users))
	return uc, nil
}
