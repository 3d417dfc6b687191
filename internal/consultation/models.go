package consultation

import "time"

// Consultation represents one clinical encounter owned by a patient.
type Consultation struct {
	ID        int64      `json:"id"`
	PatientID int64      `json:"patient_id"`
	Date      time.Time  `json:"date"`
	Procedure string     `json:"procedure,omitempty"`
	Meds      string     `json:"meds,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CreateConsultationParams are the caller-supplied fields for a new
// consultation; the store assigns id and timestamps.
type CreateConsultationParams struct {
	PatientID int64     `json:"patient_id"`
	Date      time.Time `json:"date"`
	Procedure string    `json:"procedure"`
	Meds      string    `json:"meds"`
}

// CreateConsultationRequest is the handler-facing create payload.
type CreateConsultationRequest struct {
	Date      string `json:"date"` // RFC 3339; empty means now
	Procedure string `json:"procedure"`
	Meds      string `json:"meds"`
}

// UpdateConsultationRequest is the handler-facing partial update payload.
type UpdateConsultationRequest struct {
	Date      *string `json:"date,omitempty"`
	Procedure *string `json:"procedure,omitempty"`
	Meds      *string `json:"meds,omitempty"`
}

// ConsultationListResponse is the list envelope returned to the UI shell.
type ConsultationListResponse struct {
	Success       bool           `json:"success"`
	Consultations []Consultation `json:"consultations"`
	Total         int            `json:"total"`
}
