package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/domain/auditlog"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/auth"
)

func requireAdmin(ctx context.Context, what string) error {
	caller := auth.PrincipalFromContext(ctx)
	if caller == nil {
		return apperr.Authentication("authentication credentials were not provided")
	}
	if !auth.IsAdmin(caller) {
		return apperr.Permission("only administrators may manage %s", what)
	}
	return nil
}

// -- Admin --

func (s *Service) CreateAdmin(ctx context.Context, in AdminInput) (*Admin, error) {
	if err := requireAdmin(ctx, "administrators"); err != nil {
		return nil, err
	}
	return s.createAdmin(ctx, in)
}

func (s *Service) createAdmin(ctx context.Context, in AdminInput) (*Admin, error) {
	if in.Email == nil || in.Password == nil {
		return nil, apperr.Validation("email and password are required")
	}
	a := &Admin{}
	if err := applyAdmin(a, in, true); err != nil {
		return nil, err
	}
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		acct, err := s.accounts.Register(ctx, auth.RoleAdmin, *in.Email, *in.Password)
		if err != nil {
			return err
		}
		a.AccountID, a.Email = acct.ID, acct.Email
		if err := s.admins.Create(ctx, a); err != nil {
			return err
		}
		return s.audit.Record(ctx, auditlog.ActionCreateAdmin, fmt.Sprintf("Administrator %s (%s) created", a.FullName, a.ID))
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// BootstrapAdmin creates the first administrator outside any request. It is a
// no-op returning created=false when the email is already registered.
func (s *Service) BootstrapAdmin(ctx context.Context, email, password, fullName, jobTitle string) (*Admin, bool, error) {
	exists, err := s.accounts.Exists(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if exists {
		return nil, false, nil
	}
	in := AdminInput{Credentials: Credentials{Email: &email, Password: &password}, FullName: &fullName}
	if jobTitle != "" {
		in.JobTitle = &jobTitle
	}
	a, err := s.createAdmin(ctx, in)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

func (s *Service) ListAdmins(ctx context.Context, limit, offset int) ([]*Admin, int, error) {
	if err := requireAdmin(ctx, "administrators"); err != nil {
		return nil, 0, err
	}
	return s.admins.List(ctx, limit, offset)
}

func (s *Service) GetAdmin(ctx context.Context, id uuid.UUID) (*Admin, error) {
	if err := requireAdmin(ctx, "administrators"); err != nil {
		return nil, err
	}
	return s.admins.GetByID(ctx, id)
}

func (s *Service) UpdateAdmin(ctx context.Context, id uuid.UUID, in AdminInput, partial bool) (*Admin, error) {
	a, err := s.GetAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyAdmin(a, in, !partial); err != nil {
		return nil, err
	}
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if email, err := s.updateCredentials(ctx, a.AccountID, in.Credentials); err != nil {
			return err
		} else if email != "" {
			a.Email = email
		}
		if err := s.admins.Update(ctx, a); err != nil {
			return err
		}
		return s.audit.Record(ctx, auditlog.ActionUpdateAdmin, fmt.Sprintf("Administrator %s (%s) updated", a.FullName, a.ID))
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) DeleteAdmin(ctx context.Context, id uuid.UUID) error {
	a, err := s.GetAdmin(ctx, id)
	if err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.audit.Record(ctx, auditlog.ActionDeleteAdmin, fmt.Sprintf("Administrator %s (%s) deleted", a.FullName, a.ID)); err != nil {
			return err
		}
		return s.accounts.Delete(ctx, a.AccountID)
	})
}

func applyAdmin(a *Admin, in AdminInput, replace bool) error {
	if replace || in.FullName != nil {
		v, err := requiredText("full_name", in.FullName)
		if err != nil {
			return err
		}
		a.FullName = v
	}
	if replace || in.JobTitle != nil {
		a.JobTitle = DefaultJobTitle
		if v := optionalText(in.JobTitle); v != nil {
			a.JobTitle = *v
		}
	}
	return nil
}

// -- Professional --

func (s *Service) CreateProfessional(ctx context.Context, in ProfessionalInput) (*Professional, error) {
	if err := requireAdmin(ctx, "professionals"); err != nil {
		return nil, err
	}
	if in.Email == nil || in.Password == nil {
		return nil, apperr.Validation("email and password are required")
	}
	p := &Professional{}
	if err := applyProfessional(p, in, true); err != nil {
		return nil, err
	}
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		acct, err := s.accounts.Register(ctx, auth.RoleProfessional, *in.Email, *in.Password)
		if err != nil {
			return err
		}
		p.AccountID, p.Email = acct.ID, acct.Email
		if err := s.professionals.Create(ctx, p); err != nil {
			return err
		}
		return s.audit.Record(ctx, auditlog.ActionCreateProfessional, fmt.Sprintf("Professional %s (%s) created", p.FullName, p.ID))
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListProfessionals(ctx context.Context, limit, offset int) ([]*Professional, int, error) {
	if err := requireAdmin(ctx, "professionals"); err != nil {
		return nil, 0, err
	}
	return s.professionals.List(ctx, limit, offset)
}

func (s *Service) GetProfessional(ctx context.Context, id uuid.UUID) (*Professional, error) {
	if err := requireAdmin(ctx, "professionals"); err != nil {
		return nil, err
	}
	return s.professionals.GetByID(ctx, id)
}

func (s *Service) UpdateProfessional(ctx context.Context, id uuid.UUID, in ProfessionalInput, partial bool) (*Professional, error) {
	p, err := s.GetProfessional(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProfessional(p, in, !partial); err != nil {
		return nil, err
	}
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if email, err := s.updateCredentials(ctx, p.AccountID, in.Credentials); err != nil {
			return err
		} else if email != "" {
			p.Email = email
		}
		if err := s.professionals.Update(ctx, p); err != nil {
			return err
		}
		return s.audit.Record(ctx, auditlog.ActionUpdateProfessional, fmt.Sprintf("Professional %s (%s) updated", p.FullName, p.ID))
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeleteProfessional(ctx context.Context, id uuid.UUID) error {
	p, err := s.GetProfessional(ctx, id)
	if err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.audit.Record(ctx, auditlog.ActionDeleteProfessional, fmt.Sprintf("Professional %s (%s) deleted", p.FullName, p.ID)); err != nil {
			return err
		}
		return s.accounts.Delete(ctx, p.AccountID)
	})
}

func applyProfessional(p *Professional, in ProfessionalInput, replace bool) error {
	if replace || in.FullName != nil {
		v, err := requiredText("full_name", in.FullName)
		if err != nil {
			return err
		}
		p.FullName = v
	}
	if replace || in.Specialty != nil {
		v, err := requiredText("specialty", in.Specialty)
		if err != nil {
			return err
		}
		p.Specialty = v
	}
	if replace || in.LicenseNumber != nil {
		v, err := requiredText("license_number", in.LicenseNumber)
		if err != nil {
			return err
		}
		p.LicenseNumber = v
	}
	return nil
}
