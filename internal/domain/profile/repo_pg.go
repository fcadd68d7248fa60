package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/db"
)

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

func (r *patientRepoPG) conn(ctx context.Context) db.Querier { return db.Conn(ctx, r.pool) }

const patientSelect = `SELECT p.id, p.account_id, a.email, p.full_name, p.document_id, p.birth_date,
	p.phone, p.address, p.created_at, p.updated_at
	FROM patient_profiles p JOIN accounts a ON a.id = p.account_id`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.AccountID, &p.Email, &p.FullName, &p.DocumentID, &p.BirthDate,
		&p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("patient not found")
	}
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient_profiles (id, account_id, full_name, document_id, birth_date, phone, address)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		p.ID, p.AccountID, p.FullName, p.DocumentID, p.BirthDate, p.Phone, p.Address).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if db.IsUniqueViolation(err, "patient_profiles_document_id_key") {
		return apperr.Conflict("a patient with this document number already exists")
	}
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, patientSelect+` WHERE p.id = $1`, id))
}

func (r *patientRepoPG) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, patientSelect+` WHERE p.account_id = $1`, accountID))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE patient_profiles SET full_name=$2, document_id=$3, birth_date=$4, phone=$5, address=$6,
			updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.FullName, p.DocumentID, p.BirthDate, p.Phone, p.Address).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("patient not found")
	}
	if db.IsUniqueViolation(err, "patient_profiles_document_id_key") {
		return apperr.Conflict("a patient with this document number already exists")
	}
	return err
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient_profiles`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, patientSelect+` ORDER BY p.full_name, p.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// =========== Admin Repository ===========

type adminRepoPG struct{ pool *pgxpool.Pool }

func NewAdminRepoPG(pool *pgxpool.Pool) AdminRepository { return &adminRepoPG{pool: pool} }

func (r *adminRepoPG) conn(ctx context.Context) db.Querier { return db.Conn(ctx, r.pool) }

const adminSelect = `SELECT p.id, p.account_id, a.email, p.full_name, p.job_title, p.created_at, p.updated_at
	FROM admin_profiles p JOIN accounts a ON a.id = p.account_id`

func scanAdmin(row pgx.Row) (*Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.AccountID, &a.Email, &a.FullName, &a.JobTitle, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("administrator not found")
	}
	return &a, err
}

func (r *adminRepoPG) Create(ctx context.Context, a *Admin) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO admin_profiles (id, account_id, full_name, job_title)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		a.ID, a.AccountID, a.FullName, a.JobTitle).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *adminRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	return scanAdmin(r.conn(ctx).QueryRow(ctx, adminSelect+` WHERE p.id = $1`, id))
}

func (r *adminRepoPG) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Admin, error) {
	return scanAdmin(r.conn(ctx).QueryRow(ctx, adminSelect+` WHERE p.account_id = $1`, accountID))
}

func (r *adminRepoPG) Update(ctx context.Context, a *Admin) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE admin_profiles SET full_name=$2, job_title=$3, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.FullName, a.JobTitle).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("administrator not found")
	}
	return err
}

func (r *adminRepoPG) List(ctx context.Context, limit, offset int) ([]*Admin, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM admin_profiles`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, adminSelect+` ORDER BY p.full_name, p.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

// =========== Professional Repository ===========

type professionalRepoPG struct{ pool *pgxpool.Pool }

func NewProfessionalRepoPG(pool *pgxpool.Pool) ProfessionalRepository {
	return &professionalRepoPG{pool: pool}
}

func (r *professionalRepoPG) conn(ctx context.Context) db.Querier { return db.Conn(ctx, r.pool) }

const professionalSelect = `SELECT p.id, p.account_id, a.email, p.full_name, p.specialty, p.license_number,
	p.created_at, p.updated_at
	FROM professional_profiles p JOIN accounts a ON a.id = p.account_id`

func scanProfessional(row pgx.Row) (*Professional, error) {
	var p Professional
	err := row.Scan(&p.ID, &p.AccountID, &p.Email, &p.FullName, &p.Specialty, &p.LicenseNumber,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("professional not found")
	}
	return &p, err
}

func (r *professionalRepoPG) Create(ctx context.Context, p *Professional) error {
	p.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO professional_profiles (id, account_id, full_name, specialty, license_number)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		p.ID, p.AccountID, p.FullName, p.Specialty, p.LicenseNumber).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *professionalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Professional, error) {
	return scanProfessional(r.conn(ctx).QueryRow(ctx, professionalSelect+` WHERE p.id = $1`, id))
}

func (r *professionalRepoPG) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Professional, error) {
	return scanProfessional(r.conn(ctx).QueryRow(ctx, professionalSelect+` WHERE p.account_id = $1`, accountID))
}

func (r *professionalRepoPG) Update(ctx context.Context, p *Professional) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE professional_profiles SET full_name=$2, specialty=$3, license_number=$4, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.FullName, p.Specialty, p.LicenseNumber).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("professional not found")
	}
	return err
}

func (r *professionalRepoPG) List(ctx context.Context, limit, offset int) ([]*Professional, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM professional_profiles`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, professionalSelect+` ORDER BY p.full_name, p.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Professional
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
