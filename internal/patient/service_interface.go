package patient

import (
	"context"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/pagination"
)

// ServiceInterface defines the contract for patient business logic operations
type ServiceInterface interface {
	CreatePatient(ctx context.Context, req CreatePatientRequest) (*Patient, error)
	GetPatient(ctx context.Context, id int64) (*Patient, error)
	ListPatients(ctx context.Context, params pagination.Params, search string) (*PaginatedPatientListResponse, error)
	SearchPatients(ctx context.Context, filters map[string]string, params pagination.Params) (*PaginatedPatientListResponse, error)
	UpdatePatient(ctx context.Context, id int64, req UpdatePatientRequest) (*Patient, error)
	DeletePatient(ctx context.Context, id int64) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
