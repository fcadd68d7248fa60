package auditlog

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	// List returns entries newest first.
	List(ctx context.Context, limit, offset int) ([]*Entry, int, error)
}
