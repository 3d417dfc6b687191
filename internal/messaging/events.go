package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys as constants
const (
	// Patient events
	EventPatientCreated = "patient.created"
	EventPatientUpdated = "patient.updated"
	EventPatientDeleted = "patient.deleted"

	// Consultation events
	EventConsultationCreated = "consultation.created"
	EventConsultationDeleted = "consultation.deleted"

	// Import events
	EventImportCompleted = "import.completed"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// PatientEvent is published for patient lifecycle changes.
type PatientEvent struct {
	BaseEvent
	Data PatientEventData `json:"data"`
}

type PatientEventData struct {
	PatientID     int64     `json:"patient_id"`
	MedicalRecord string    `json:"medical_record"`
	Name          string    `json:"name"`
	Gender        string    `json:"gender"`
	RegisteredAt  time.Time `json:"registered_at"`
}

// ConsultationEvent is published for consultation lifecycle changes.
type ConsultationEvent struct {
	BaseEvent
	Data ConsultationEventData `json:"data"`
}

type ConsultationEventData struct {
	ConsultationID int64     `json:"consultation_id"`
	PatientID      int64     `json:"patient_id"`
	Date           time.Time `json:"date"`
}

// ImportCompletedEvent is published once per finished import run,
// successful or partially failed.
type ImportCompletedEvent struct {
	BaseEvent
	Data ImportCompletedData `json:"data"`
}

type ImportCompletedData struct {
	RunID                 string    `json:"run_id"`
	PatientsImported      int       `json:"patients_imported"`
	ConsultationsImported int       `json:"consultations_imported"`
	ErrorCount            int       `json:"error_count"`
	CompletedAt           time.Time `json:"completed_at"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.New().String(),
		Timestamp:   time.Now().UTC(), // Explicitly set to UTC
		ServiceName: "medical-control",
	}
}
