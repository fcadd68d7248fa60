package scheduling

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/auth"
)

// ProfileDirectory resolves the profile that belongs to an account.
type ProfileDirectory interface {
	PatientIDByAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error)
	ProfessionalIDByAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error)
	AdminIDByAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error)
}

// Scope limits which appointments a caller sees. The zero value sees nothing.
type Scope struct {
	All            bool
	PatientID      *uuid.UUID
	ProfessionalID *uuid.UUID
}

func (s Scope) Empty() bool {
	return !s.All && s.PatientID == nil && s.ProfessionalID == nil
}

// Contains reports whether a falls inside the scope.
func (s Scope) Contains(a *Appointment) bool {
	switch {
	case s.All:
		return true
	case s.PatientID != nil:
		return a.PatientID == *s.PatientID
	case s.ProfessionalID != nil:
		return a.ProfessionalID == *s.ProfessionalID
	}
	return false
}

// Actor is the per-role policy the scheduler consults.
type Actor interface {
	Scope() Scope
	CanCreate() bool
	// PrepareCreate fills the ownership fields of a new appointment.
	PrepareCreate(a *Appointment, patientID *uuid.UUID) error
	CanCancel(a *Appointment) bool
	// Cancel moves a to the actor's cancelled status.
	Cancel(a *Appointment, justification *string) error
}

// ActorFor builds the strategy for the caller in ctx.
func ActorFor(ctx context.Context, dir ProfileDirectory) (Actor, error) {
	p := auth.PrincipalFromContext(ctx)
	if p == nil {
		return noActor{}, nil
	}
	switch p.Role {
	case auth.RolePatient:
		id, err := dir.PatientIDByAccount(ctx, p.AccountID)
		if errors.Is(err, apperr.ErrNotFound) {
			return noActor{}, nil
		}
		if err != nil {
			return nil, err
		}
		return patientActor{patientID: id}, nil
	case auth.RoleProfessional:
		id, err := dir.ProfessionalIDByAccount(ctx, p.AccountID)
		if errors.Is(err, apperr.ErrNotFound) {
			return noActor{}, nil
		}
		if err != nil {
			return nil, err
		}
		return professionalActor{professionalID: id}, nil
	case auth.RoleAdmin:
		id, err := dir.AdminIDByAccount(ctx, p.AccountID)
		if errors.Is(err, apperr.ErrNotFound) {
			return adminActor{}, nil
		}
		if err != nil {
			return nil, err
		}
		return adminActor{adminID: &id}, nil
	}
	return noActor{}, nil
}

// -- patient --

type patientActor struct{ patientID uuid.UUID }

func (p patientActor) Scope() Scope {
	id := p.patientID
	return Scope{PatientID: &id}
}

func (patientActor) CanCreate() bool { return true }

func (p patientActor) PrepareCreate(a *Appointment, _ *uuid.UUID) error {
	a.PatientID = p.patientID
	a.AdminCreatorID = nil
	return nil
}

func (p patientActor) CanCancel(a *Appointment) bool { return a.PatientID == p.patientID }

func (patientActor) Cancel(a *Appointment, justification *string) error {
	a.Status = StatusCancelledByPatient
	a.CancellationJustification = orDefault(justification, defaultPatientJustification)
	return nil
}

// -- professional --

type professionalActor struct{ professionalID uuid.UUID }

func (p professionalActor) Scope() Scope {
	id := p.professionalID
	return Scope{ProfessionalID: &id}
}

func (professionalActor) CanCreate() bool { return false }

func (professionalActor) PrepareCreate(*Appointment, *uuid.UUID) error { return errCannotCreate }

func (p professionalActor) CanCancel(a *Appointment) bool { return a.ProfessionalID == p.professionalID }

// Cancel stores the justification verbatim; professionals must give one.
func (professionalActor) Cancel(a *Appointment, justification *string) error {
	if justification == nil || *justification == "" {
		return apperr.Validation("justification required")
	}
	j := *justification
	a.Status = StatusCancelledByProfessional
	a.CancellationJustification = &j
	return nil
}

// -- admin --

type adminActor struct{ adminID *uuid.UUID }

func (adminActor) Scope() Scope { return Scope{All: true} }

func (adminActor) CanCreate() bool { return true }

func (ad adminActor) PrepareCreate(a *Appointment, patientID *uuid.UUID) error {
	if patientID == nil || *patientID == uuid.Nil {
		return apperr.Validation("patient_id is required")
	}
	a.PatientID = *patientID
	a.AdminCreatorID = ad.adminID
	return nil
}

func (adminActor) CanCancel(*Appointment) bool { return true }

func (adminActor) Cancel(a *Appointment, justification *string) error {
	a.Status = StatusCancelledByAdmin
	a.CancellationJustification = orDefault(justification, defaultAdminJustification)
	return nil
}

// -- anyone else --

type noActor struct{}

func (noActor) Scope() Scope { return Scope{} }
func (noActor) CanCreate() bool { return false }
func (noActor) PrepareCreate(*Appointment, *uuid.UUID) error { return errCannotCreate }
func (noActor) CanCancel(*Appointment) bool { return false }
func (noActor) Cancel(*Appointment, *string) error { return errCannotCancel }

var (
	errCannotCreate = apperr.Permission("only patients and administrators may create appointments")
	errCannotCancel = apperr.Permission("you may not cancel this appointment")
)

func orDefault(s *string, def string) *string {
	if s == nil || *s == "" {
		return &def
	}
	v := *s
	return &v
}
