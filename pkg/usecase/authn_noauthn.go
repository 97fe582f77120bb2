package usecase

import (
	"context"
	"time"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/auth"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
)

// NoAuthnUseCase treats every request as coming from a fixed user (for development/testing)
type NoAuthnUseCase struct {
	user auth.User
}

func NewNoAuthnUseCase(id, name, email string) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		user: auth.User{ID: types.UserID(id), Name: name, Email: email},
	}
}

func (uc *NoAuthnUseCase) session() *auth.Session {
	user := uc.user
	return &auth.Session{User: &user, ExpiresAt: time.Now().Add(DefaultTokenTTL)}
}

// Login ignores the credentials and returns a session for the fixed user
func (uc *NoAuthnUseCase) Login(ctx context.Context, id types.UserID, password string) (*auth.Session, error) {
	return uc.session(), nil
}

func (uc *NoAuthnUseCase) IssueToken(ctx context.Context, user *auth.User) (*auth.Session, error) {
	return uc.session(), nil
}

// ValidateToken always returns the fixed user
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, token string) (*auth.User, error) {
	user := uc.user
	return &user, nil
}

func (uc *NoAuthnUseCase) Logout(ctx context.Context, token string) error {
	return nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
