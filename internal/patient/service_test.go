package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/pagination"
)

// mockRepository implements RepositoryInterface with overridable functions
type mockRepository struct {
	CreatePatientFunc      func(ctx context.Context, fields map[string]any) (*Patient, error)
	GetPatientFunc         func(ctx context.Context, id int64) (*Patient, error)
	FindPatientsByNameFunc func(ctx context.Context, name string) ([]Patient, error)
	ListPatientsFunc       func(ctx context.Context, limit, offset int, search string) ([]Patient, int, error)
	SearchPatientsFunc     func(ctx context.Context, filters map[string]string, limit, offset int) ([]Patient, int, error)
	UpdatePatientFunc      func(ctx context.Context, id int64, fields map[string]any) (*Patient, error)
	DeletePatientFunc      func(ctx context.Context, id int64) error
	CountPatientsFunc      func(ctx context.Context) (int, error)
	ExportRowsFunc         func(ctx context.Context) ([]map[string]any, error)
}

func (m *mockRepository) CreatePatient(ctx context.Context, fields map[string]any) (*Patient, error) {
	return m.CreatePatientFunc(ctx, fields)
}

func (m *mockRepository) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return m.GetPatientFunc(ctx, id)
}

func (m *mockRepository) FindPatientsByName(ctx context.Context, name string) ([]Patient, error) {
	return m.FindPatientsByNameFunc(ctx, name)
}

func (m *mockRepository) ListPatients(ctx context.Context, limit, offset int, search string) ([]Patient, int, error) {
	return m.ListPatientsFunc(ctx, limit, offset, search)
}

func (m *mockRepository) SearchPatients(ctx context.Context, filters map[string]string, limit, offset int) ([]Patient, int, error) {
	return m.SearchPatientsFunc(ctx, filters, limit, offset)
}

func (m *mockRepository) UpdatePatient(ctx context.Context, id int64, fields map[string]any) (*Patient, error) {
	return m.UpdatePatientFunc(ctx, id, fields)
}

func (m *mockRepository) DeletePatient(ctx context.Context, id int64) error {
	return m.DeletePatientFunc(ctx, id)
}

func (m *mockRepository) CountPatients(ctx context.Context) (int, error) {
	return m.CountPatientsFunc(ctx)
}

func (m *mockRepository) ExportRows(ctx context.Context) ([]map[string]any, error) {
	return m.ExportRowsFunc(ctx)
}

// mockPublisher records routing keys of published events
type mockPublisher struct {
	published []string
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	m.published = append(m.published, routingKey)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

// mockMetrics records the operation names passed to the recorder
type mockMetrics struct {
	operations []string
}

func (m *mockMetrics) RecordPatientOperation(ctx context.Context, operation string) {
	m.operations = append(m.operations, operation)
}

func TestServiceRecordsOperationMetrics(t *testing.T) {
	repo := &mockRepository{
		CreatePatientFunc: func(ctx context.Context, fields map[string]any) (*Patient, error) {
			return &Patient{ID: 1, Name: "Ana Ruiz"}, nil
		},
		GetPatientFunc: func(ctx context.Context, id int64) (*Patient, error) {
			return &Patient{ID: id, Name: "Ana Ruiz"}, nil
		},
		UpdatePatientFunc: func(ctx context.Context, id int64, fields map[string]any) (*Patient, error) {
			return &Patient{ID: id, Name: "Ana Ruiz"}, nil
		},
		DeletePatientFunc: func(ctx context.Context, id int64) error {
			return nil
		},
	}
	metrics := &mockMetrics{}
	service := NewServiceWithMetrics(repo, nil, metrics)

	if _, err := service.CreatePatient(context.Background(), CreatePatientRequest{Name: "Ana Ruiz", Gender: "female"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name := "Ana Ruiz"
	if _, err := service.UpdatePatient(context.Background(), 1, UpdatePatientRequest{Name: &name}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.DeletePatient(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"created", "updated", "deleted"}
	if len(metrics.operations) != len(want) {
		t.Fatalf("expected %v, got %v", want, metrics.operations)
	}
	for i, op := range want {
		if metrics.operations[i] != op {
			t.Errorf("operation %d: expected %q, got %q", i, op, metrics.operations[i])
		}
	}
}

func TestServiceSkipsMetricsOnFailure(t *testing.T) {
	repo := &mockRepository{
		GetPatientFunc: func(ctx context.Context, id int64) (*Patient, error) {
			return nil, ErrPatientNotFound
		},
	}
	metrics := &mockMetrics{}
	service := NewServiceWithMetrics(repo, nil, metrics)

	if err := service.DeletePatient(context.Background(), 1); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
	if len(metrics.operations) != 0 {
		t.Errorf("expected no operations recorded, got %v", metrics.operations)
	}
}

func TestCreatePatientValidation(t *testing.T) {
	tests := []struct {
		name string
		req  CreatePatientRequest
		want error
	}{
		{"missing name", CreatePatientRequest{Gender: "female"}, ErrMissingName},
		{"missing gender", CreatePatientRequest{Name: "Ana Ruiz"}, ErrMissingGender},
		{"invalid gender", CreatePatientRequest{Name: "Ana Ruiz", Gender: "other"}, ErrInvalidGender},
		{"bad date", CreatePatientRequest{Name: "Ana Ruiz", Gender: "female", RegisteredAt: "yesterday"}, ErrInvalidRegistered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{
				CreatePatientFunc: func(ctx context.Context, fields map[string]any) (*Patient, error) {
					t.Fatal("repository should not be called")
					return nil, nil
				},
			}
			service := NewService(repo, nil)

			_, err := service.CreatePatient(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreatePatientSuccess(t *testing.T) {
	var gotFields map[string]any
	repo := &mockRepository{
		CreatePatientFunc: func(ctx context.Context, fields map[string]any) (*Patient, error) {
			gotFields = fields
			return &Patient{
				ID:            1,
				Name:          "Ana Ruiz",
				Gender:        "female",
				MedicalRecord: MedicalRecordLabel(1),
				RegisteredAt:  fields["registeredAt"].(time.Time),
			}, nil
		},
	}
	publisher := &mockPublisher{}
	service := NewService(repo, publisher)

	p, err := service.CreatePatient(context.Background(), CreatePatientRequest{
		Name:         "Ana Ruiz",
		Gender:       "female",
		RegisteredAt: "2021-03-04T10:30:00Z",
		Fields:       map[string]any{"city": "Monterrey"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.MedicalRecord != "MC-00001" {
		t.Errorf("expected derived medical record, got %q", p.MedicalRecord)
	}
	if gotFields["name"] != "Ana Ruiz" || gotFields["gender"] != "female" {
		t.Errorf("expected identity fields to be set, got %v", gotFields)
	}
	if gotFields["city"] != "Monterrey" {
		t.Errorf("expected optional fields to pass through, got %v", gotFields)
	}
	registeredAt, ok := gotFields["registeredAt"].(time.Time)
	if !ok || !registeredAt.Equal(time.Date(2021, 3, 4, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("expected parsed registration date, got %v", gotFields["registeredAt"])
	}
	if len(publisher.published) != 1 || publisher.published[0] != "patient.created" {
		t.Errorf("expected patient.created event, got %v", publisher.published)
	}
}

func TestCreatePatientDefaultsRegisteredAt(t *testing.T) {
	repo := &mockRepository{
		CreatePatientFunc: func(ctx context.Context, fields map[string]any) (*Patient, error) {
			registeredAt, ok := fields["registeredAt"].(time.Time)
			if !ok {
				t.Fatal("expected registeredAt to be set")
			}
			if time.Since(registeredAt) > time.Minute {
				t.Errorf("expected registeredAt to default to now, got %v", registeredAt)
			}
			return &Patient{ID: 1, Name: "Ana Ruiz", RegisteredAt: registeredAt}, nil
		},
	}
	service := NewService(repo, nil)

	if _, err := service.CreatePatient(context.Background(), CreatePatientRequest{Name: "Ana Ruiz", Gender: "female"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdatePatientBuildsFields(t *testing.T) {
	var gotFields map[string]any
	repo := &mockRepository{
		UpdatePatientFunc: func(ctx context.Context, id int64, fields map[string]any) (*Patient, error) {
			gotFields = fields
			return &Patient{ID: id, Name: "Ana Ruiz"}, nil
		},
	}
	service := NewService(repo, nil)

	name := "Ana Ruiz"
	registeredAt := "2021-03-04T10:30:00Z"
	_, err := service.UpdatePatient(context.Background(), 1, UpdatePatientRequest{
		Name:         &name,
		RegisteredAt: &registeredAt,
		Fields:       map[string]any{"city": "Monterrey"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotFields["name"] != "Ana Ruiz" || gotFields["city"] != "Monterrey" {
		t.Errorf("unexpected fields: %v", gotFields)
	}
	if _, ok := gotFields["gender"]; ok {
		t.Error("gender should be absent when not in the request")
	}
	if _, ok := gotFields["registeredAt"].(time.Time); !ok {
		t.Errorf("expected parsed registeredAt, got %v", gotFields["registeredAt"])
	}
}

func TestUpdatePatientRejectsEmptyName(t *testing.T) {
	service := NewService(&mockRepository{}, nil)

	empty := ""
	_, err := service.UpdatePatient(context.Background(), 1, UpdatePatientRequest{Name: &empty})
	if !errors.Is(err, ErrMissingName) {
		t.Errorf("expected ErrMissingName, got %v", err)
	}
}

func TestDeletePatientPublishesEvent(t *testing.T) {
	repo := &mockRepository{
		GetPatientFunc: func(ctx context.Context, id int64) (*Patient, error) {
			return &Patient{ID: id, Name: "Ana Ruiz"}, nil
		},
		DeletePatientFunc: func(ctx context.Context, id int64) error {
			return nil
		},
	}
	publisher := &mockPublisher{}
	service := NewService(repo, publisher)

	if err := service.DeletePatient(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(publisher.published) != 1 || publisher.published[0] != "patient.deleted" {
		t.Errorf("expected patient.deleted event, got %v", publisher.published)
	}
}

func TestDeletePatientNotFound(t *testing.T) {
	repo := &mockRepository{
		GetPatientFunc: func(ctx context.Context, id int64) (*Patient, error) {
			return nil, ErrPatientNotFound
		},
	}
	publisher := &mockPublisher{}
	service := NewService(repo, publisher)

	if err := service.DeletePatient(context.Background(), 1); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
	if len(publisher.published) != 0 {
		t.Errorf("expected no events, got %v", publisher.published)
	}
}

func TestListPatientsEmptyResult(t *testing.T) {
	repo := &mockRepository{
		ListPatientsFunc: func(ctx context.Context, limit, offset int, search string) ([]Patient, int, error) {
			return nil, 0, nil
		},
	}
	service := NewService(repo, nil)

	resp, err := service.ListPatients(context.Background(), pagination.Params{Page: 1, Limit: 10}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Patients == nil || len(resp.Patients) != 0 {
		t.Errorf("expected empty slice, got %v", resp.Patients)
	}
}

func TestSearchPatientsPassesFilters(t *testing.T) {
	var gotFilters map[string]string
	repo := &mockRepository{
		SearchPatientsFunc: func(ctx context.Context, filters map[string]string, limit, offset int) ([]Patient, int, error) {
			gotFilters = filters
			return []Patient{{ID: 1, Name: "Ana Ruiz"}}, 1, nil
		},
	}
	service := NewService(repo, nil)

	resp, err := service.SearchPatients(context.Background(), map[string]string{"city": "Monterrey"}, pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFilters["city"] != "Monterrey" {
		t.Errorf("expected filters to pass through, got %v", gotFilters)
	}
	if len(resp.Patients) != 1 {
		t.Errorf("expected one result, got %v", resp.Patients)
	}
}
