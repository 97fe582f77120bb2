package auth

import (
	"time"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
)

// Session is a signed token issued to a user.
type Session struct {
	Token     string
	User      *User
	ExpiresAt time.Time
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Credential pairs a user with the bcrypt hash of their password.
type Credential struct {
	User         User
	PasswordHash string
}

// Directory looks up login credentials by user ID.
type Directory map[types.UserID]Credential

func NewDirectory(creds ...Credential) Directory {
	d := make(Directory, len(creds))
	for _, c := range creds {
		d[c.User.ID] = c
	}
	return d
}
