package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/domain/auditlog"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/auth"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/db"
)

// AuditRecorder is the part of the audit log this package writes to.
type AuditRecorder interface {
	Record(ctx context.Context, action auditlog.Action, detail string) error
	RecordAs(ctx context.Context, actor *auth.Principal, action auditlog.Action, detail string) error
}

// LoginObserver counts login attempts by outcome.
type LoginObserver interface {
	ObserveLogin(outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveLogin(string) {}

const (
	LoginSucceeded = "success"
	LoginRejected  = "invalid_credentials"
	LoginFailed    = "error"
)

// LoginResult is returned by a successful Authenticate.
type LoginResult struct {
	Token   string   `json:"token"`
	Account *Account `json:"account"`
}

type Service struct {
	accounts Repository
	sessions SessionRepository
	tx       db.Transactor
	audit    AuditRecorder
	issuer   *auth.TokenIssuer
	logins   LoginObserver
}

func NewService(accounts Repository, sessions SessionRepository, tx db.Transactor, audit AuditRecorder, issuer *auth.TokenIssuer) *Service {
	return &Service{
		accounts: accounts,
		sessions: sessions,
		tx:       tx,
		audit:    audit,
		issuer:   issuer,
		logins:   nopObserver{},
	}
}

// SetLoginObserver attaches a metrics sink for login outcomes.
func (s *Service) SetLoginObserver(o LoginObserver) {
	if o != nil {
		s.logins = o
	}
}

// Authenticate exchanges credentials for a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	res, err := s.authenticate(ctx, email, password)
	switch {
	case err == nil:
		s.logins.ObserveLogin(LoginSucceeded)
	case errors.Is(err, apperr.ErrAuthentication):
		s.logins.ObserveLogin(LoginRejected)
	default:
		s.logins.ObserveLogin(LoginFailed)
	}
	return res, err
}

func (s *Service) authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, apperr.Authentication("invalid credentials")
	}
	acct, err := s.accounts.GetByEmail(ctx, normalized)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Authentication("invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if !auth.CheckPassword(acct.PasswordHash, password) {
		return nil, apperr.Authentication("invalid credentials")
	}

	var sess *Session
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if sess, err = s.sessions.GetOrCreate(ctx, acct.ID); err != nil {
			return err
		}
		return s.audit.RecordAs(ctx, acct.Principal(), auditlog.ActionLogin,
			fmt.Sprintf("User %s logged in", acct.Email))
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(acct.ID, sess.ID, acct.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Account: acct}, nil
}

// Revoke deletes the caller's session, invalidating every token issued for it.
func (s *Service) Revoke(ctx context.Context) error {
	p := auth.PrincipalFromContext(ctx)
	if p == nil {
		return apperr.Authentication("authentication credentials were not provided")
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.sessions.DeleteByAccount(ctx, p.AccountID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return s.audit.Record(ctx, auditlog.ActionLogout, fmt.Sprintf("User %s logged out", p.Email))
	})
}

// Register creates an account with a hashed password. Callers creating the
// matching profile run this inside their own transaction.
func (s *Service) Register(ctx context.Context, role auth.Role, email, password string) (*Account, error) {
	if !role.Valid() {
		return nil, apperr.Validation("invalid role %q", role)
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acct := &Account{Email: normalized, PasswordHash: hash, Role: role}
	if err := s.accounts.Create(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// UpdateCredentials changes the email and/or password of an account. Nil
// arguments are left untouched.
func (s *Service) UpdateCredentials(ctx context.Context, id uuid.UUID, email, password *string) (*Account, error) {
	acct, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if email == nil && password == nil {
		return acct, nil
	}
	if email != nil {
		normalized, err := NormalizeEmail(*email)
		if err != nil {
			return nil, err
		}
		acct.Email = normalized
	}
	if password != nil {
		if err := validatePassword(*password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		acct.PasswordHash = hash
	}
	if err := s.accounts.UpdateCredentials(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// Exists reports whether an account is registered under email.
func (s *Service) Exists(ctx context.Context, email string) (bool, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return false, err
	}
	_, err = s.accounts.GetByEmail(ctx, normalized)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes the account together with its profile and session.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.accounts.Delete(ctx, id)
}

// ResolveSession implements auth.SessionResolver.
func (s *Service) ResolveSession(ctx context.Context, sessionID, accountID uuid.UUID) (*auth.Principal, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, auth.ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	if sess.AccountID != accountID {
		return nil, auth.ErrNoSession
	}
	acct, err := s.accounts.GetByID(ctx, accountID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, auth.ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return acct.Principal(), nil
}
