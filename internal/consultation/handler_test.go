package consultation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

// mockConsultationService implements ServiceInterface with overridable functions
type mockConsultationService struct {
	CreateConsultationFunc func(ctx context.Context, patientID int64, req CreateConsultationRequest) (*Consultation, error)
	GetConsultationFunc    func(ctx context.Context, id int64) (*Consultation, error)
	ListByPatientFunc      func(ctx context.Context, patientID int64) ([]Consultation, error)
	UpdateConsultationFunc func(ctx context.Context, id int64, req UpdateConsultationRequest) (*Consultation, error)
	DeleteConsultationFunc func(ctx context.Context, id int64) error
}

func (m *mockConsultationService) CreateConsultation(ctx context.Context, patientID int64, req CreateConsultationRequest) (*Consultation, error) {
	return m.CreateConsultationFunc(ctx, patientID, req)
}

func (m *mockConsultationService) GetConsultation(ctx context.Context, id int64) (*Consultation, error) {
	return m.GetConsultationFunc(ctx, id)
}

func (m *mockConsultationService) ListByPatient(ctx context.Context, patientID int64) ([]Consultation, error) {
	return m.ListByPatientFunc(ctx, patientID)
}

func (m *mockConsultationService) UpdateConsultation(ctx context.Context, id int64, req UpdateConsultationRequest) (*Consultation, error) {
	return m.UpdateConsultationFunc(ctx, id, req)
}

func (m *mockConsultationService) DeleteConsultation(ctx context.Context, id int64) error {
	return m.DeleteConsultationFunc(ctx, id)
}

func newTestRouter(service ServiceInterface) *mux.Router {
	handler := NewHandler(service)
	r := mux.NewRouter()
	r.HandleFunc("/patients/{id}/consultations", handler.CreateConsultation).Methods("POST")
	r.HandleFunc("/patients/{id}/consultations", handler.ListByPatient).Methods("GET")
	r.HandleFunc("/consultations/{id}", handler.GetConsultation).Methods("GET")
	r.HandleFunc("/consultations/{id}", handler.UpdateConsultation).Methods("PUT")
	r.HandleFunc("/consultations/{id}", handler.DeleteConsultation).Methods("DELETE")
	return r
}

func TestCreateConsultationHandler(t *testing.T) {
	service := &mockConsultationService{
		CreateConsultationFunc: func(ctx context.Context, patientID int64, req CreateConsultationRequest) (*Consultation, error) {
			return &Consultation{ID: 1, PatientID: patientID, Procedure: req.Procedure}, nil
		},
	}
	router := newTestRouter(service)

	body := `{"procedure":"nerve block","date":"2021-03-04T10:30:00Z"}`
	req := httptest.NewRequest("POST", "/patients/7/consultations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateConsultationHandlerRejectsEmptyRecord(t *testing.T) {
	service := &mockConsultationService{
		CreateConsultationFunc: func(ctx context.Context, patientID int64, req CreateConsultationRequest) (*Consultation, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest("POST", "/patients/7/consultations", strings.NewReader(`{"date":"2021-03-04T10:30:00Z"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty record, got %d", rec.Code)
	}
}

func TestListByPatientHandlerEmpty(t *testing.T) {
	service := &mockConsultationService{
		ListByPatientFunc: func(ctx context.Context, patientID int64) ([]Consultation, error) {
			return nil, nil
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest("GET", "/patients/7/consultations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"consultations":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestGetConsultationHandlerNotFound(t *testing.T) {
	service := &mockConsultationService{
		GetConsultationFunc: func(ctx context.Context, id int64) (*Consultation, error) {
			return nil, ErrConsultationNotFound
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest("GET", "/consultations/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteConsultationHandler(t *testing.T) {
	service := &mockConsultationService{
		DeleteConsultationFunc: func(ctx context.Context, id int64) error {
			return nil
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest("DELETE", "/consultations/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
