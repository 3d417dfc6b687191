package patient

import (
	"fmt"
	"time"
)

// Patient represents a stored patient record. Core identity fields are
// typed; the remaining optional attributes live in Fields keyed by their
// internal field name (see Registry).
type Patient struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	RegisteredAt  time.Time      `json:"registered_at"`
	Gender        string         `json:"gender"`
	MedicalRecord string         `json:"medical_record"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
	Fields        map[string]any `json:"fields,omitempty"`
}

// MedicalRecordLabel derives the human-readable record label from the
// store-assigned id. It is never user-editable and always recomputed.
func MedicalRecordLabel(id int64) string {
	return fmt.Sprintf("MC-%05d", id)
}

// CreatePatientRequest is the handler-facing create payload. Optional
// attributes arrive in Fields keyed by internal field name.
type CreatePatientRequest struct {
	Name         string         `json:"name"`
	RegisteredAt string         `json:"registered_at"` // RFC 3339; empty means now
	Gender       string         `json:"gender"`
	Fields       map[string]any `json:"fields,omitempty"`
}

// UpdatePatientRequest is the handler-facing partial update payload.
type UpdatePatientRequest struct {
	Name         *string        `json:"name,omitempty"`
	RegisteredAt *string        `json:"registered_at,omitempty"`
	Gender       *string        `json:"gender,omitempty"`
	Fields       map[string]any `json:"fields,omitempty"`
}

// PaginatedPatientListResponse is the paginated list envelope returned to
// the UI shell.
type PaginatedPatientListResponse struct {
	Success  bool      `json:"success"`
	Patients []Patient `json:"patients"`
	Meta     any       `json:"meta"`
}
