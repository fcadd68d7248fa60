package account

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/auth"
)

// MinPasswordLength is the shortest password accepted on registration or
// credential change.
const MinPasswordLength = 6

type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         auth.Role `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

func (a *Account) Principal() *auth.Principal {
	return &auth.Principal{AccountID: a.ID, Email: a.Email, Role: a.Role}
}

// Session backs issued tokens. There is at most one per account; deleting it
// revokes every token naming its ID.
type Session struct {
	ID        uuid.UUID `db:"id" json:"id"`
	AccountID uuid.UUID `db:"account_id" json:"account_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NormalizeEmail trims surrounding space and lower-cases the domain part. The
// local part is kept as typed.
func NormalizeEmail(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", apperr.Validation("email is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", apperr.Validation("enter a valid email address")
	}
	at := strings.LastIndex(s, "@")
	return s[:at] + "@" + strings.ToLower(s[at+1:]), nil
}

func validatePassword(pw string) error {
	if pw == "" {
		return apperr.Validation("password is required")
	}
	if len(pw) < MinPasswordLength {
		return apperr.Validation("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
