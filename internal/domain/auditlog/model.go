package auditlog

import (
	"time"

	"github.com/google/uuid"
)

// Action is the fixed code naming what was done.
type Action string

const (
	ActionCreatePatient      Action = "CREATE_PATIENT"
	ActionUpdatePatient      Action = "UPDATE_PATIENT"
	ActionDeletePatient      Action = "DELETE_PATIENT"
	ActionCreateAdmin        Action = "CREATE_ADMIN"
	ActionUpdateAdmin        Action = "UPDATE_ADMIN"
	ActionDeleteAdmin        Action = "DELETE_ADMIN"
	ActionCreateProfessional Action = "CREATE_PROFESSIONAL"
	ActionUpdateProfessional Action = "UPDATE_PROFESSIONAL"
	ActionDeleteProfessional Action = "DELETE_PROFESSIONAL"
	ActionCreateAppointment  Action = "CREATE_APPOINTMENT"
	ActionCancelAppointment  Action = "CANCEL_APPOINTMENT"
	ActionLogin              Action = "LOGIN"
	ActionLogout             Action = "LOGOUT"
)

// Entry is one immutable audit record. AccountID is nil when the action was
// taken anonymously or when the account has since been deleted; ActorEmail
// keeps who it was in the latter case.
type Entry struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	AccountID     *uuid.UUID `db:"account_id" json:"account_id,omitempty"`
	ActorEmail    *string    `db:"actor_email" json:"actor_email,omitempty"`
	Action        Action     `db:"action" json:"action"`
	Detail        string     `db:"detail" json:"detail"`
	RecordedAt    time.Time  `db:"recorded_at" json:"recorded_at"`
	SourceAddress *string    `db:"source_address" json:"source_address,omitempty"`
}
