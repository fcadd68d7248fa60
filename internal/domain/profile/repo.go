package profile

import (
	"context"

	"github.com/google/uuid"
)

type PatientRepository interface {
	// Create fails with a Conflict error when the document number is taken.
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}

type AdminRepository interface {
	Create(ctx context.Context, a *Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Admin, error)
	Update(ctx context.Context, a *Admin) error
	List(ctx context.Context, limit, offset int) ([]*Admin, int, error)
}

type ProfessionalRepository interface {
	Create(ctx context.Context, p *Professional) error
	GetByID(ctx context.Context, id uuid.UUID) (*Professional, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Professional, error)
	Update(ctx context.Context, p *Professional) error
	List(ctx context.Context, limit, offset int) ([]*Professional, int, error)
}
