package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/auth"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/logging"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	DefaultIssuer   = "monstor-tickets"

	claimName  = "name"
	claimEmail = "email"
)

// AuthUseCaseInterface resolves the identity of a request.
type AuthUseCaseInterface interface {
	Login(ctx context.Context, id types.UserID, password string) (*auth.Session, error)
	IssueToken(ctx context.Context, user *auth.User) (*auth.Session, error)
	ValidateToken(ctx context.Context, token string) (*auth.User, error)
	Logout(ctx context.Context, token string) error
	IsNoAuthn() bool
}

// AuthUseCase issues and validates HS256 signed session tokens.
type AuthUseCase struct {
	secret    []byte
	issuer    string
	ttl       time.Duration
	directory auth.Directory
	revoked   *revocationList
}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

func WithTokenTTL(ttl time.Duration) AuthOption {
	return func(uc *AuthUseCase) {
		uc.ttl = ttl
	}
}

func WithIssuer(issuer string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.issuer = issuer
	}
}

// WithDirectory sets the users allowed to log in with a password
func WithDirectory(d auth.Directory) AuthOption {
	return func(uc *AuthUseCase) {
		uc.directory = d
	}
}

func NewAuthUseCase(secret []byte, options ...AuthOption) (*AuthUseCase, error) {
	if len(secret) < 32 {
		return nil, goerr.New("auth secret must be at least 32 bytes", goerr.V("length", len(secret)))
	}

	uc := &AuthUseCase{
		secret:    secret,
		issuer:    DefaultIssuer,
		ttl:       DefaultTokenTTL,
		directory: auth.Directory{},
		revoked:   newRevocationList(),
	}
	for _, opt := range options {
		opt(uc)
	}

	return uc, nil
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// Login checks password against the directory and issues a session.
// Unknown users and wrong passwords fail the same way.
func (uc *AuthUseCase) Login(ctx context.Context, id types.UserID, password string) (*auth.Session, error) {
	cred, ok := uc.directory[id]
	if !ok {
		return nil, goerr.Wrap(ErrUnauthenticated, "unknown user", goerr.V(UserIDKey, id))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, goerr.Wrap(ErrUnauthenticated, "password mismatch", goerr.V(UserIDKey, id))
	}

	user := cred.User
	logging.From(ctx).Info("user logged in", "user_id", user.ID)
	return uc.IssueToken(ctx, &user)
}

func (uc *AuthUseCase) IssueToken(ctx context.Context, user *auth.User) (*auth.Session, error) {
	if err := user.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user")
	}

	now := time.Now()
	expiresAt := now.Add(uc.ttl)

	tok, err := jwt.NewBuilder().
		Issuer(uc.issuer).
		JwtID(uuid.NewString()).
		Subject(user.ID.String()).
		IssuedAt(now).
		Expiration(expiresAt).
		Claim(claimName, user.Name).
		Claim(claimEmail, user.Email).
		Build()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build token", goerr.V(UserIDKey, user.ID))
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, uc.secret))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sign token", goerr.V(UserIDKey, user.ID))
	}

	return &auth.Session{
		Token:     string(signed),
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}

func (uc *AuthUseCase) parse(ctx context.Context, token string) (jwt.Token, error) {
	if token == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "empty token")
	}

	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(uc.issuer),
		jwt.WithAcceptableSkew(10*time.Second),
	)
	if err != nil {
		logging.From(ctx).Debug("token rejected", "error", err)
		return nil, goerr.Wrap(ErrUnauthenticated, "invalid token", goerr.V("reason", err.Error()))
	}
	return parsed, nil
}

// ValidateToken verifies the signature, issuer and expiry of token and
// that it was not logged out. Any failure is reported as ErrUnauthenticated.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, token string) (*auth.User, error) {
	parsed, err := uc.parse(ctx, token)
	if err != nil {
		return nil, err
	}
	if uc.revoked.isRevoked(parsed.JwtID()) {
		return nil, goerr.Wrap(ErrUnauthenticated, "token revoked")
	}

	user := &auth.User{ID: types.UserID(parsed.Subject())}
	if v, ok := parsed.Get(claimName); ok {
		user.Name, _ = v.(string)
	}
	if v, ok := parsed.Get(claimEmail); ok {
		user.Email, _ = v.(string)
	}
	if err := user.Validate(); err != nil {
		return nil, goerr.Wrap(ErrUnauthenticated, "token has no subject")
	}

	return user, nil
}

// Logout revokes token for the rest of its lifetime. Invalid tokens are
// ignored since they cannot authenticate anyway.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	parsed, err := uc.parse(ctx, token)
	if err != nil {
		return nil
	}

	uc.revoked.revoke(parsed.JwtID(), parsed.Expiration())
	logging.From(ctx).Info("user logged out", "user_id", parsed.Subject())
	return nil
}
