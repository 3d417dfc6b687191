package consultation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/messaging"
)

// MetricsRecorder counts consultation operations. A nil recorder disables
// counting.
type MetricsRecorder interface {
	RecordConsultationOperation(ctx context.Context, operation string)
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
	s.metrics.RecordConsultationOperation(ctx, operation)
}

func (s *Service) CreateConsultation(ctx context.Context, patientID int64, req CreateConsultationRequest) (*Consultation, error) {
	if patientID < 1 {
		return nil, ErrMissingPatient
	}

	date := time.Now().UTC()
	if req.Date != "" {
		t, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDate, req.Date)
		}
		date = t.UTC()
	}

	c, err := s.repo.CreateConsultation(ctx, CreateConsultationParams{
		PatientID: patientID,
		Date:      date,
		Procedure: req.Procedure,
		Meds:      req.Meds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}

	s.publishConsultationEvent(ctx, messaging.EventConsultationCreated, c)
	s.recordOperation(ctx, "created")
	return c, nil
}

func (s *Service) GetConsultation(ctx context.Context, id int64) (*Consultation, error) {
	return s.repo.GetConsultation(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]Consultation, error) {
	consultations, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

func (s *Service) UpdateConsultation(ctx context.Context, id int64, req UpdateConsultationRequest) (*Consultation, error) {
	c, err := s.repo.UpdateConsultation(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.recordOperation(ctx, "updated")
	return c, nil
}

func (s *Service) DeleteConsultation(ctx context.Context, id int64) error {
	c, err := s.repo.GetConsultation(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteConsultation(ctx, id); err != nil {
		return err
	}
	s.publishConsultationEvent(ctx, messaging.EventConsultationDeleted, c)
	s.recordOperation(ctx, "deleted")
	return nil
}

func (s *Service) publishConsultationEvent(ctx context.Context, eventType string, c *Consultation) {
	if s.publisher == nil {
		return
	}
	event := messaging.ConsultationEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.ConsultationEventData{
			ConsultationID: c.ID,
			PatientID:      c.PatientID,
			Date:           c.Date,
		},
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
