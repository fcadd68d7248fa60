package account

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create fails with a Conflict error when the email is taken.
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UpdateCredentials(ctx context.Context, a *Account) error
	// Delete cascades to the account's profile and session.
	Delete(ctx context.Context, id uuid.UUID) error
}

type SessionRepository interface {
	// GetOrCreate returns the account's live session, creating it if needed.
	GetOrCreate(ctx context.Context, accountID uuid.UUID) (*Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}
