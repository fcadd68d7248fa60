package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/db"
)

// =========== Account Repository ===========

type accountRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &accountRepoPG{pool: pool} }

func (r *accountRepoPG) conn(ctx context.Context) db.Querier { return db.Conn(ctx, r.pool) }

const accountCols = `id, email, password_hash, role, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("account not found")
	}
	return &a, err
}

func (r *accountRepoPG) Create(ctx context.Context, a *Account) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO accounts (id, email, password_hash, role)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		a.ID, a.Email, a.PasswordHash, a.Role).Scan(&a.CreatedAt, &a.UpdatedAt)
	if db.IsUniqueViolation(err, "accounts_email_key") {
		return apperr.Conflict("an account with this email already exists")
	}
	return err
}

func (r *accountRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return scanAccount(r.conn(ctx).QueryRow(ctx, `SELECT `+accountCols+` FROM accounts WHERE id = $1`, id))
}

func (r *accountRepoPG) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return scanAccount(r.conn(ctx).QueryRow(ctx, `SELECT `+accountCols+` FROM accounts WHERE email = $1`, email))
}

func (r *accountRepoPG) UpdateCredentials(ctx context.Context, a *Account) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE accounts SET email=$2, password_hash=$3, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.Email, a.PasswordHash).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("account not found")
	}
	if db.IsUniqueViolation(err, "accounts_email_key") {
		return apperr.Conflict("an account with this email already exists")
	}
	return err
}

func (r *accountRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("account not found")
	}
	return nil
}

// =========== Session Repository ===========

type sessionRepoPG struct{ pool *pgxpool.Pool }

func NewSessionRepoPG(pool *pgxpool.Pool) SessionRepository { return &sessionRepoPG{pool: pool} }

func (r *sessionRepoPG) conn(ctx context.Context) db.Querier { return db.Conn(ctx, r.pool) }

func (r *sessionRepoPG) GetOrCreate(ctx context.Context, accountID uuid.UUID) (*Session, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	var s Session
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO sessions (id, account_id) VALUES ($1, $2)
		ON CONFLICT (account_id) DO UPDATE SET account_id = EXCLUDED.account_id
		RETURNING id, account_id, created_at`,
		uuid.New(), accountID).Scan(&s.ID, &s.AccountID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	var s Session
	err := r.conn(ctx).QueryRow(ctx, `SELECT id, account_id, created_at FROM sessions WHERE id = $1`, id).
		Scan(&s.ID, &s.AccountID, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("session not found")
	}
	return &s, err
}

func (r *sessionRepoPG) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM sessions WHERE account_id = $1`, accountID)
	return err
}
