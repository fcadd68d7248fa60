package scheduling

import (
	"context"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	SetMeetingLink(ctx context.Context, id uuid.UUID, link string) error
	// Cancel persists a's cancelled status only if the stored row is still
	// scheduled; otherwise it returns a Conflict error.
	Cancel(ctx context.Context, a *Appointment) error
	// List returns the appointments inside scope, soonest first.
	List(ctx context.Context, scope Scope, limit, offset int) ([]*Appointment, int, error)
}
