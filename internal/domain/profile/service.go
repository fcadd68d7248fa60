package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/domain/account"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/domain/auditlog"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/auth"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/db"
)

// AccountDirectory is the account-level surface profile writes go through.
type AccountDirectory interface {
	Register(ctx context.Context, role auth.Role, email, password string) (*account.Account, error)
	UpdateCredentials(ctx context.Context, id uuid.UUID, email, password *string) (*account.Account, error)
	Exists(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AuditRecorder interface {
	Record(ctx context.Context, action auditlog.Action, detail string) error
}

type Service struct {
	patients      PatientRepository
	admins        AdminRepository
	professionals ProfessionalRepository
	accounts      AccountDirectory
	tx            db.Transactor
	audit         AuditRecorder
	now           func() time.Time
}

func NewService(pat PatientRepository, adm AdminRepository, prof ProfessionalRepository,
	accounts AccountDirectory, tx db.Transactor, audit AuditRecorder) *Service {
	return &Service{
		patients:      pat,
		admins:        adm,
		professionals: prof,
		accounts:      accounts,
		tx:            tx,
		audit:         audit,
		now:           time.Now,
	}
}

// -- Patient --

// CreatePatient registers a patient account and its profile. Open to
// anonymous callers.
func (s *Service) CreatePatient(ctx context.Context, in PatientInput) (*Patient, error) {
	if in.Email == nil || in.Password == nil {
		return nil, apperr.Validation("email and password are required")
	}
	p := &Patient{}
	if err := s.applyPatient(p, in, true); err != nil {
		return nil, err
	}
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		acct, err := s.accounts.Register(ctx, auth.RolePatient, *in.Email, *in.Password)
		if err != nil {
			return err
		}
		p.AccountID, p.Email = acct.ID, acct.Email
		if err := s.patients.Create(ctx, p); err != nil {
			return err
		}
		return s.audit.Record(ctx, auditlog.ActionCreatePatient, fmt.Sprintf("Patient %s (%s) created", p.FullName, p.ID))
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPatients returns every patient to administrators, the caller's own
// profile to patients and nothing to anyone else.
func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	caller := auth.PrincipalFromContext(ctx)
	switch {
	case auth.IsAdmin(caller):
		return s.patients.List(ctx, limit, offset)
	case caller != nil && caller.Role == auth.RolePatient:
		p, err := s.patients.GetByAccountID(ctx, caller.AccountID)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, 0, nil
		}
		if err != nil {
			return nil, 0, err
		}
		if offset > 0 {
			return nil, 1, nil
		}
		return []*Patient{p}, 1, nil
	default:
		return nil, 0, nil
	}
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.visiblePatient(ctx, id)
}

// UpdatePatient replaces (partial=false) or patches the descriptive fields and,
// when present, the account credentials.
func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, in PatientInput, partial bool) (*Patient, error) {
	p, err := s.visiblePatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyPatient(p, in, !partial); err != nil {
		return nil, err
	}
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if email, err := s.updateCredentials(ctx, p.AccountID, in.Credentials); err != nil {
			return err
		} else if email != "" {
			p.Email = email
		}
		if err := s.patients.Update(ctx, p); err != nil {
			return err
		}
		return s.audit.Record(ctx, auditlog.ActionUpdatePatient, fmt.Sprintf("Patient %s (%s) updated", p.FullName, p.ID))
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePatient removes the patient together with the owning account.
func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	p, err := s.visiblePatient(ctx, id)
	if err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		// Recorded first: the caller's own account may be the one removed.
		if err := s.audit.Record(ctx, auditlog.ActionDeletePatient, fmt.Sprintf("Patient %s (%s) deleted", p.FullName, p.ID)); err != nil {
			return err
		}
		return s.accounts.Delete(ctx, p.AccountID)
	})
}

func (s *Service) visiblePatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	caller := auth.PrincipalFromContext(ctx)
	if caller == nil {
		return nil, apperr.NotFound("patient not found")
	}
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if auth.IsAdmin(caller) || p.AccountID == caller.AccountID {
		return p, nil
	}
	return nil, apperr.NotFound("patient not found")
}

func (s *Service) applyPatient(p *Patient, in PatientInput, replace bool) error {
	if replace || in.FullName != nil {
		v, err := requiredText("full_name", in.FullName)
		if err != nil {
			return err
		}
		p.FullName = v
	}
	if replace || in.DocumentID != nil {
		v, err := requiredText("document_id", in.DocumentID)
		if err != nil {
			return err
		}
		if len(v) > maxDocumentIDLen {
			return apperr.Validation("document_id must be at most %d characters", maxDocumentIDLen)
		}
		p.DocumentID = v
	}
	if replace || in.BirthDate != nil {
		if in.BirthDate == nil || in.BirthDate.IsZero() {
			return apperr.Validation("birth_date is required")
		}
		if in.BirthDate.After(s.now()) {
			return apperr.Validation("birth_date cannot be in the future")
		}
		p.BirthDate = *in.BirthDate
	}
	if replace || in.Phone != nil {
		p.Phone = optionalText(in.Phone)
	}
	if replace || in.Address != nil {
		p.Address = optionalText(in.Address)
	}
	return nil
}

// -- Directory lookups used by the scheduler --

func (s *Service) PatientIDByAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	p, err := s.patients.GetByAccountID(ctx, accountID)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

func (s *Service) ProfessionalIDByAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	p, err := s.professionals.GetByAccountID(ctx, accountID)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

func (s *Service) AdminIDByAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	a, err := s.admins.GetByAccountID(ctx, accountID)
	if err != nil {
		return uuid.Nil, err
	}
	return a.ID, nil
}

// -- helpers --

func (s *Service) updateCredentials(ctx context.Context, accountID uuid.UUID, c Credentials) (string, error) {
	if c.empty() {
		return "", nil
	}
	acct, err := s.accounts.UpdateCredentials(ctx, accountID, c.Email, c.Password)
	if err != nil {
		return "", err
	}
	return acct.Email, nil
}

func requiredText(field string, v *string) (string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "", apperr.Validation("%s is required", field)
	}
	return strings.TrimSpace(*v), nil
}

func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
