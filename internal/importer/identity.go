package importer

import (
	"context"
	"errors"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/consultation"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/patient"
)

// PatientStore is the slice of the patient store an import run needs.
type PatientStore interface {
	GetPatient(ctx context.Context, id int64) (*patient.Patient, error)
	FindPatientsByName(ctx context.Context, name string) ([]patient.Patient, error)
	CreatePatient(ctx context.Context, fields map[string]any) (*patient.Patient, error)
	UpdatePatient(ctx context.Context, id int64, fields map[string]any) (*patient.Patient, error)
}

// ConsultationStore is the slice of the consultation store an import run needs.
type ConsultationStore interface {
	CreateConsultation(ctx context.Context, params consultation.CreateConsultationParams) (*consultation.Consultation, error)
}

// identityResolver decides whether an incoming row refers to an already
// stored patient and tracks the external-to-store id mapping for one run.
// The mapping exists so consultation rows that reference external ids still
// land on the right patient when the store assigned different ids.
type identityResolver struct {
	store PatientStore
	idMap map[int64]int64
}

func newIdentityResolver(store PatientStore) *identityResolver {
	return &identityResolver{store: store, idMap: make(map[int64]int64)}
}

// resolve returns the stored patient the row refers to, or nil when the row
// is new. The returned name substitutes the stored name when the row's own
// name is blank so the row never overwrites a good name with nothing.
//
// An id hit whose stored name conflicts with a non-blank row name is not
// trusted; the row falls through to name matching.
func (r *identityResolver) resolve(ctx context.Context, externalID int64, hasExternalID bool, name string) (*patient.Patient, string, error) {
	var candidate *patient.Patient

	if hasExternalID {
		p, err := r.store.GetPatient(ctx, externalID)
		if err != nil && !errors.Is(err, patient.ErrPatientNotFound) {
			return nil, name, err
		}
		if err == nil {
			candidate = p
		}
	}

	if candidate != nil && name != "" && name != candidate.Name {
		candidate = nil
	}

	if candidate == nil && name != "" {
		matches, err := r.store.FindPatientsByName(ctx, name)
		if err != nil {
			return nil, name, err
		}
		if len(matches) > 0 {
			candidate = &matches[0]
		}
	}

	if candidate != nil && name == "" {
		name = candidate.Name
	}
	return candidate, name, nil
}

// record remembers which store id an external id ended up as.
func (r *identityResolver) record(externalID, storeID int64) {
	r.idMap[externalID] = storeID
}

// lookup resolves a consultation row's patient reference: the run's id map
// first, then the raw reference taken as a store id.
func (r *identityResolver) lookup(ctx context.Context, externalID int64) (int64, bool, error) {
	if id, ok := r.idMap[externalID]; ok {
		return id, true, nil
	}
	p, err := r.store.GetPatient(ctx, externalID)
	if errors.Is(err, patient.ErrPatientNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return p.ID, true, nil
}
