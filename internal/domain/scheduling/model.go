package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Status is the appointment lifecycle state. Every appointment starts
// scheduled and only leaves it through a cancellation; completed is part of
// the vocabulary but has no transition into it.
type Status string

const (
	StatusScheduled               Status = "scheduled"
	StatusCancelledByPatient      Status = "cancelled_by_patient"
	StatusCancelledByProfessional Status = "cancelled_by_professional"
	StatusCancelledByAdmin        Status = "cancelled_by_admin"
	StatusCompleted               Status = "completed"
)

type Modality string

const (
	ModalityInPerson Modality = "in_person"
	ModalityRemote   Modality = "remote"
)

func (m Modality) Valid() bool {
	return m == ModalityInPerson || m == ModalityRemote
}

const (
	defaultPatientJustification = "Cancelled by patient"
	defaultAdminJustification   = "Cancelled by administrator"
)

type Appointment struct {
	ID                        uuid.UUID  `db:"id" json:"id"`
	PatientID                 uuid.UUID  `db:"patient_id" json:"patient_id"`
	ProfessionalID            uuid.UUID  `db:"professional_id" json:"professional_id"`
	AdminCreatorID            *uuid.UUID `db:"admin_creator_id" json:"admin_creator_id,omitempty"`
	Modality                  Modality   `db:"modality" json:"modality"`
	ScheduledAt               time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Location                  *string    `db:"location" json:"location,omitempty"`
	MeetingLink               *string    `db:"meeting_link" json:"meeting_link,omitempty"`
	Status                    Status     `db:"status" json:"status"`
	CancellationJustification *string    `db:"cancellation_justification" json:"cancellation_justification,omitempty"`
	CreatedAt                 time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time  `db:"updated_at" json:"updated_at"`
}

// CreateRequest is the body of POST /appointments. PatientID is ignored for
// patients, who always book for themselves.
type CreateRequest struct {
	PatientID      *uuid.UUID `json:"patient_id"`
	ProfessionalID uuid.UUID  `json:"professional_id"`
	Modality       Modality   `json:"modality"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
	Location       *string    `json:"location"`
	MeetingLink    *string    `json:"meeting_link"`
}

type CancelRequest struct {
	Justification *string `json:"justification"`
}
