package model

import "time"

// Request status constants. A request is created open and transitions to
// claimed exactly once; claimed is terminal.
const (
	RequestStatusOpen    = "open"
	RequestStatusClaimed = "claimed"
)

// Request represents a care request posted by a patient.
// ProfessionalID is null iff Status is open. A non-null
// TargetProfessionalID restricts the claim to that professional.
type Request struct {
	ID                   int64     `json:"id" db:"id"`
	PatientID            int64     `json:"patient_id" db:"patient_id"`
	ProfessionalID       *int64    `json:"professional_id" db:"professional_id"`
	TargetProfessionalID *int64    `json:"target_professional_id" db:"target_professional_id"`
	Category             string    `json:"category" db:"category"`
	Description          string    `json:"description" db:"description"`
	City                 string    `json:"city" db:"city"`
	Status               string    `json:"status" db:"status"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// Exclusive reports whether the request is reserved for a single professional.
func (r *Request) Exclusive() bool {
	return r.TargetProfessionalID != nil
}

// OpenRequest is the professional-facing projection of an open request,
// joined with the patient's username and flagged exclusive when targeted
// at the viewing professional.
type OpenRequest struct {
	ID              int64  `json:"id" db:"id"`
	PatientUsername string `json:"patient_username" db:"patient_username"`
	Category        string `json:"category" db:"category"`
	Description     string `json:"description" db:"description"`
	City            string `json:"city" db:"city"`
	Exclusive       bool   `json:"exclusive" db:"exclusive"`
}

// CreateRequestRequest represents request submission parameters.
// TargetProfessionalID is free text on purpose: values that do not parse
// to a positive integer degrade to "no target".
type CreateRequestRequest struct {
	Category             string `json:"category" binding:"required"`
	Description          string `json:"description" binding:"required"`
	City                 string `json:"city" binding:"required"`
	TargetProfessionalID string `json:"target_professional_id"`
}
