package consultation

import "context"

// RepositoryInterface defines the contract for consultation data access.
type RepositoryInterface interface {
	CreateConsultation(ctx context.Context, params CreateConsultationParams) (*Consultation, error)
	GetConsultation(ctx context.Context, id int64) (*Consultation, error)
	ListByPatient(ctx context.Context, patientID int64) ([]Consultation, error)
	UpdateConsultation(ctx context.Context, id int64, req UpdateConsultationRequest) (*Consultation, error)
	DeleteConsultation(ctx context.Context, id int64) error
	CountConsultations(ctx context.Context) (int, error)
	ExportRows(ctx context.Context) ([]map[string]any, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
