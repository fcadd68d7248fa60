package auditlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/auth"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends an entry attributed to the principal and source address
// carried by ctx. Anonymous callers produce an entry without an account.
func (s *Service) Record(ctx context.Context, action Action, detail string) error {
	return s.RecordAs(ctx, auth.PrincipalFromContext(ctx), action, detail)
}

// RecordAs appends an entry attributed to actor, for flows such as login where
// the request itself is not yet authenticated.
func (s *Service) RecordAs(ctx context.Context, actor *auth.Principal, action Action, detail string) error {
	e := &Entry{Action: action, Detail: detail}
	if actor != nil {
		id := actor.AccountID
		email := actor.Email
		e.AccountID = &id
		e.ActorEmail = &email
	}
	if addr := auth.RemoteAddrFromContext(ctx); addr != "" {
		e.SourceAddress = &addr
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return fmt.Errorf("append audit entry %s: %w", action, err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Entry, int, error) {
	if !auth.IsAdmin(auth.PrincipalFromContext(ctx)) {
		return nil, 0, apperr.Permission("only administrators may read the audit log")
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	if !auth.IsAdmin(auth.PrincipalFromContext(ctx)) {
		return nil, apperr.Permission("only administrators may read the audit log")
	}
	return s.repo.GetByID(ctx, id)
}
