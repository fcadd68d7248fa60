package scheduling

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

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) db.Querier { return db.Conn(ctx, r.pool) }

const apptCols = `id, patient_id, professional_id, admin_creator_id, modality, scheduled_at,
	location, meeting_link, status, cancellation_justification, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.ProfessionalID, &a.AdminCreatorID, &a.Modality, &a.ScheduledAt,
		&a.Location, &a.MeetingLink, &a.Status, &a.CancellationJustification, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment not found")
	}
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, professional_id, admin_creator_id, modality,
			scheduled_at, location, meeting_link, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.ProfessionalID, a.AdminCreatorID, a.Modality,
		a.ScheduledAt, a.Location, a.MeetingLink, a.Status).Scan(&a.CreatedAt, &a.UpdatedAt)
	if db.IsForeignKeyViolation(err) {
		return apperr.Validation("patient or professional does not exist")
	}
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *appointmentRepoPG) SetMeetingLink(ctx context.Context, id uuid.UUID, link string) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE appointments SET meeting_link=$2, updated_at=NOW() WHERE id = $1`, id, link)
	return err
}

func (r *appointmentRepoPG) Cancel(ctx context.Context, a *Appointment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE appointments SET status=$2, cancellation_justification=$3, updated_at=NOW()
		WHERE id = $1 AND status = $4
		RETURNING updated_at`,
		a.ID, a.Status, a.CancellationJustification, StatusScheduled).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.Conflict("appointment is no longer scheduled")
	}
	return err
}

func (r *appointmentRepoPG) List(ctx context.Context, scope Scope, limit, offset int) ([]*Appointment, int, error) {
	where, args := scopeClause(scope)
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM appointments%s ORDER BY scheduled_at, id LIMIT $%d OFFSET $%d`,
		apptCols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func scopeClause(s Scope) (string, []interface{}) {
	switch {
	case s.All:
		return "", nil
	case s.PatientID != nil:
		return ` WHERE patient_id = $1`, []interface{}{*s.PatientID}
	case s.ProfessionalID != nil:
		return ` WHERE professional_id = $1`, []interface{}{*s.ProfessionalID}
	}
	return ` WHERE FALSE`, nil
}
