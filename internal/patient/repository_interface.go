package patient

import "context"

// RepositoryInterface defines the contract for patient data access.
type RepositoryInterface interface {
	CreatePatient(ctx context.Context, fields map[string]any) (*Patient, error)
	GetPatient(ctx context.Context, id int64) (*Patient, error)
	FindPatientsByName(ctx context.Context, name string) ([]Patient, error)
	ListPatients(ctx context.Context, limit, offset int, search string) ([]Patient, int, error)
	SearchPatients(ctx context.Context, filters map[string]string, limit, offset int) ([]Patient, int, error)
	UpdatePatient(ctx context.Context, id int64, fields map[string]any) (*Patient, error)
	DeletePatient(ctx context.Context, id int64) error
	CountPatients(ctx context.Context) (int, error)
	ExportRows(ctx context.Context) ([]map[string]any, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
