package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/domain/auditlog"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/auth"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/db"
)

type AuditRecorder interface {
	Record(ctx context.Context, action auditlog.Action, detail string) error
}

// Observer receives appointment lifecycle counts.
type Observer interface {
	AppointmentCreated(modality string)
	AppointmentCancelled(status string)
}

type nopObserver struct{}

func (nopObserver) AppointmentCreated(string)   {}
func (nopObserver) AppointmentCancelled(string) {}

type Service struct {
	appointments AppointmentRepository
	directory    ProfileDirectory
	tx           db.Transactor
	audit        AuditRecorder
	links        *LinkGenerator
	observer     Observer
	logger       zerolog.Logger
	now          func() time.Time
}

func NewService(appt AppointmentRepository, dir ProfileDirectory, tx db.Transactor, audit AuditRecorder,
	links *LinkGenerator, logger zerolog.Logger) *Service {
	return &Service{
		appointments: appt,
		directory:    dir,
		tx:           tx,
		audit:        audit,
		links:        links,
		observer:     nopObserver{},
		logger:       logger,
		now:          time.Now,
	}
}

func (s *Service) SetObserver(o Observer) {
	if o != nil {
		s.observer = o
	}
}

// Create books a new appointment for the caller. Patients always book for
// themselves; administrators book on behalf of a patient and are recorded as
// the creator. Remote appointments without a link get a generated one.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Appointment, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}
	actor, err := ActorFor(ctx, s.directory)
	if err != nil {
		return nil, fmt.Errorf("resolve caller profile: %w", err)
	}
	if !actor.CanCreate() {
		return nil, errCannotCreate
	}

	a := &Appointment{
		ProfessionalID: req.ProfessionalID,
		Modality:       req.Modality,
		ScheduledAt:    req.ScheduledAt,
		Location:       trimmed(req.Location),
		MeetingLink:    trimmed(req.MeetingLink),
		Status:         StatusScheduled,
	}
	if err := actor.PrepareCreate(a, req.PatientID); err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.appointments.Create(ctx, a); err != nil {
			return err
		}
		if a.Modality == ModalityRemote && a.MeetingLink == nil {
			link := s.links.Generate()
			if err := s.appointments.SetMeetingLink(ctx, a.ID, link); err != nil {
				return fmt.Errorf("store meeting link: %w", err)
			}
			a.MeetingLink = &link
		}
		return s.audit.Record(ctx, auditlog.ActionCreateAppointment,
			fmt.Sprintf("Appointment %s created for %s", a.ID, a.ScheduledAt.UTC().Format(time.RFC3339)))
	})
	if err != nil {
		return nil, err
	}
	s.observer.AppointmentCreated(string(a.Modality))
	return a, nil
}

func (s *Service) validateCreate(req CreateRequest) error {
	if req.ProfessionalID == uuid.Nil {
		return apperr.Validation("professional_id is required")
	}
	if !req.Modality.Valid() {
		return apperr.Validation("modality must be one of %q, %q", ModalityInPerson, ModalityRemote)
	}
	if req.ScheduledAt.IsZero() {
		return apperr.Validation("scheduled_at is required")
	}
	if !req.ScheduledAt.After(s.now()) {
		return apperr.Validation("scheduled_at must be in the future")
	}
	return nil
}

// List returns the appointments visible to the caller. Callers without a
// scheduling role get an empty page.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	actor, err := ActorFor(ctx, s.directory)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve caller profile: %w", err)
	}
	scope := actor.Scope()
	if scope.Empty() {
		return nil, 0, nil
	}
	return s.appointments.List(ctx, scope, limit, offset)
}

// Get returns an appointment only if it is in the caller's list scope.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	actor, err := ActorFor(ctx, s.directory)
	if err != nil {
		return nil, fmt.Errorf("resolve caller profile: %w", err)
	}
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Scope().Contains(a) {
		return nil, apperr.NotFound("appointment not found")
	}
	return a, nil
}

// Cancel moves a scheduled appointment to the caller's cancelled status.
// Concurrent cancellations of the same appointment resolve to one winner;
// the others get a Conflict.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, justification *string) (*Appointment, error) {
	actor, err := ActorFor(ctx, s.directory)
	if err != nil {
		return nil, fmt.Errorf("resolve caller profile: %w", err)
	}
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanCancel(a) {
		s.rejectCancel(ctx, a, "not permitted")
		return nil, errCannotCancel
	}
	if a.Status != StatusScheduled {
		s.rejectCancel(ctx, a, "not scheduled")
		return nil, apperr.Conflict("appointment is already %s", a.Status)
	}
	if err := actor.Cancel(a, justification); err != nil {
		s.rejectCancel(ctx, a, "missing justification")
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.appointments.Cancel(ctx, a); err != nil {
			return err
		}
		return s.audit.Record(ctx, auditlog.ActionCancelAppointment,
			fmt.Sprintf("Appointment %s cancelled. Status: %s", a.ID, a.Status))
	})
	if errors.Is(err, apperr.ErrConflict) {
		s.rejectCancel(ctx, a, "lost concurrent cancel")
	}
	if err != nil {
		return nil, err
	}
	s.observer.AppointmentCancelled(string(a.Status))
	return a, nil
}

// Delete is never allowed; appointments leave the schedule by cancellation.
func (s *Service) Delete(_ context.Context, id uuid.UUID) error {
	s.logger.Debug().Str("appointment_id", id.String()).Msg("appointment delete refused")
	return apperr.MethodNotAllowed("use POST /appointments/{id}/cancel to cancel an appointment")
}

func (s *Service) rejectCancel(ctx context.Context, a *Appointment, reason string) {
	ev := s.logger.Warn().
		Str("appointment_id", a.ID.String()).
		Str("status", string(a.Status)).
		Str("reason", reason)
	if p := auth.PrincipalFromContext(ctx); p != nil {
		ev = ev.Str("account_id", p.AccountID.String()).Str("role", string(p.Role))
	}
	ev.Msg("appointment cancellation rejected")
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
