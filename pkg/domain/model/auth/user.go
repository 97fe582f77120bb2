package auth

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
)

// User is the identity resolved by the authentication collaborator.
type User struct {
	ID    types.UserID `json:"id"`
	Name  string       `json:"name"`
	Email string       `json:"email,omitempty"`
}

func (u *User) Validate() error {
	if u == nil || u.ID.IsZero() {
		return goerr.New("user ID is required")
	}
	return nil
}

type ctxUserKey struct{}

// ContextWithUser stores the authenticated user in ctx.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, user)
}

// UserFromContext returns the authenticated user, or an error when the
// request is unauthenticated.
func UserFromContext(ctx context.Context) (*User, error) {
	user, ok := ctx.Value(ctxUserKey{}).(*User)
	if !ok || user == nil {
		return nil, goerr.New("no authenticated user in context")
	}
	return user, nil
}
