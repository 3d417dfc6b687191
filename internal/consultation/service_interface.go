package consultation

import "context"

// ServiceInterface defines the contract for consultation business logic.
type ServiceInterface interface {
	CreateConsultation(ctx context.Context, patientID int64, req CreateConsultationRequest) (*Consultation, error)
	GetConsultation(ctx context.Context, id int64) (*Consultation, error)
	ListByPatient(ctx context.Context, patientID int64) ([]Consultation, error)
	UpdateConsultation(ctx context.Context, id int64, req UpdateConsultationRequest) (*Consultation, error)
	DeleteConsultation(ctx context.Context, id int64) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
