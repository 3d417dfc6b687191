package patient

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/messaging"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/pagination"
)

// MetricsRecorder counts patient operations. A nil recorder disables
// counting.
type MetricsRecorder interface {
	RecordPatientOperation(ctx context.Context, operation string)
}

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface) *Service {
	return &Service{repo: repo, publisher: publisher}
}

func NewServiceWithMetrics(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics MetricsRecorder) *Service {
	return &Service{repo: repo, publisher: publisher, metrics: metrics}
}

func (s *Service) recordOperation(ctx context.Context, operation string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordPatientOperation(ctx, operation)
}

func validGender(g string) bool {
	return g == "male" || g == "female"
}

func (s *Service) CreatePatient(ctx context.Context, req CreatePatientRequest) (*Patient, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}
	if req.Gender == "" {
		return nil, ErrMissingGender
	}
	if !validGender(req.Gender) {
		return nil, ErrInvalidGender
	}

	registeredAt := time.Now().UTC()
	if req.RegisteredAt != "" {
		t, err := time.Parse(time.RFC3339, req.RegisteredAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRegistered, req.RegisteredAt)
		}
		registeredAt = t.UTC()
	}

	fields := make(map[string]any, len(req.Fields)+3)
	for k, v := range req.Fields {
		fields[k] = v
	}
	fields["name"] = req.Name
	fields["registeredAt"] = registeredAt
	fields["gender"] = req.Gender

	p, err := s.repo.CreatePatient(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.publishPatientEvent(ctx, messaging.EventPatientCreated, p)
	s.recordOperation(ctx, "created")
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	p, err := s.repo.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListPatients(ctx context.Context, params pagination.Params, search string) (*PaginatedPatientListResponse, error) {
	params.Validate()
	patients, total, err := s.repo.ListPatients(ctx, params.Limit, params.CalculateOffset(), search)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	if patients == nil {
		patients = []Patient{}
	}
	return &PaginatedPatientListResponse{
		Success:  true,
		Patients: patients,
		Meta:     params.CalculateMeta(total),
	}, nil
}

func (s *Service) SearchPatients(ctx context.Context, filters map[string]string, params pagination.Params) (*PaginatedPatientListResponse, error) {
	params.Validate()
	patients, total, err := s.repo.SearchPatients(ctx, filters, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, err
	}
	if patients == nil {
		patients = []Patient{}
	}
	return &PaginatedPatientListResponse{
		Success:  true,
		Patients: patients,
		Meta:     params.CalculateMeta(total),
	}, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id int64, req UpdatePatientRequest) (*Patient, error) {
	fields := make(map[string]any, len(req.Fields)+3)
	for k, v := range req.Fields {
		fields[k] = v
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrMissingName
		}
		fields["name"] = *req.Name
	}
	if req.Gender != nil {
		if !validGender(*req.Gender) {
			return nil, ErrInvalidGender
		}
		fields["gender"] = *req.Gender
	}
	if req.RegisteredAt != nil {
		t, err := time.Parse(time.RFC3339, *req.RegisteredAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRegistered, *req.RegisteredAt)
		}
		fields["registeredAt"] = t.UTC()
	}

	p, err := s.repo.UpdatePatient(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.publishPatientEvent(ctx, messaging.EventPatientUpdated, p)
	s.recordOperation(ctx, "updated")
	return p, nil
}

func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	p, err := s.repo.GetPatient(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePatient(ctx, id); err != nil {
		return err
	}
	s.publishPatientEvent(ctx, messaging.EventPatientDeleted, p)
	s.recordOperation(ctx, "deleted")
	return nil
}

func (s *Service) publishPatientEvent(ctx context.Context, eventType string, p *Patient) {
	if s.publisher == nil {
		return
	}
	event := messaging.PatientEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.PatientEventData{
			PatientID:     p.ID,
			MedicalRecord: p.MedicalRecord,
			Name:          p.Name,
			Gender:        p.Gender,
			RegisteredAt:  p.RegisteredAt,
		},
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
