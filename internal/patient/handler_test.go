package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/pagination"
)

// mockService implements ServiceInterface with overridable functions
type mockService struct {
	CreatePatientFunc  func(ctx context.Context, req CreatePatientRequest) (*Patient, error)
	GetPatientFunc     func(ctx context.Context, id int64) (*Patient, error)
	ListPatientsFunc   func(ctx context.Context, params pagination.Params, search string) (*PaginatedPatientListResponse, error)
	SearchPatientsFunc func(ctx context.Context, filters map[string]string, params pagination.Params) (*PaginatedPatientListResponse, error)
	UpdatePatientFunc  func(ctx context.Context, id int64, req UpdatePatientRequest) (*Patient, error)
	DeletePatientFunc  func(ctx context.Context, id int64) error
}

func (m *mockService) CreatePatient(ctx context.Context, req CreatePatientRequest) (*Patient, error) {
	return m.CreatePatientFunc(ctx, req)
}

func (m *mockService) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return m.GetPatientFunc(ctx, id)
}

func (m *mockService) ListPatients(ctx context.Context, params pagination.Params, search string) (*PaginatedPatientListResponse, error) {
	return m.ListPatientsFunc(ctx, params, search)
}

func (m *mockService) SearchPatients(ctx context.Context, filters map[string]string, params pagination.Params) (*PaginatedPatientListResponse, error) {
	return m.SearchPatientsFunc(ctx, filters, params)
}

func (m *mockService) UpdatePatient(ctx context.Context, id int64, req UpdatePatientRequest) (*Patient, error) {
	return m.UpdatePatientFunc(ctx, id, req)
}

func (m *mockService) DeletePatient(ctx context.Context, id int64) error {
	return m.DeletePatientFunc(ctx, id)
}

func newTestRouter(service ServiceInterface) *mux.Router {
	handler := NewHandler(service)
	r := mux.NewRouter()
	r.HandleFunc("/patients", handler.CreatePatient).Methods("POST")
	r.HandleFunc("/patients", handler.ListPatients).Methods("GET")
	r.HandleFunc("/patients/search", handler.SearchPatients).Methods("GET")
	r.HandleFunc("/patients/{id}", handler.GetPatient).Methods("GET")
	r.HandleFunc("/patients/{id}", handler.UpdatePatient).Methods("PUT")
	r.HandleFunc("/patients/{id}", handler.DeletePatient).Methods("DELETE")
	return r
}

func TestCreatePatientHandler(t *testing.T) {
	service := &mockService{
		CreatePatientFunc: func(ctx context.Context, req CreatePatientRequest) (*Patient, error) {
			return &Patient{ID: 1, Name: req.Name, Gender: req.Gender, MedicalRecord: "MC-00001"}, nil
		},
	}
	router := newTestRouter(service)

	body := `{"name":"Ana Ruiz","gender":"female"}`
	req := httptest.NewRequest("POST", "/patients", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp PatientSuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Patient == nil || resp.Patient.MedicalRecord != "MC-00001" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCreatePatientHandlerBadJSON(t *testing.T) {
	router := newTestRouter(&mockService{})

	req := httptest.NewRequest("POST", "/patients", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreatePatientHandlerValidationError(t *testing.T) {
	service := &mockService{
		CreatePatientFunc: func(ctx context.Context, req CreatePatientRequest) (*Patient, error) {
			return nil, ErrMissingGender
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest("POST", "/patients", strings.NewReader(`{"name":"Ana Ruiz"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetPatientHandler(t *testing.T) {
	service := &mockService{
		GetPatientFunc: func(ctx context.Context, id int64) (*Patient, error) {
			if id != 7 {
				t.Errorf("expected id 7, got %d", id)
			}
			return &Patient{ID: id, Name: "Ana Ruiz", MedicalRecord: "MC-00007"}, nil
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest("GET", "/patients/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGetPatientHandlerNotFound(t *testing.T) {
	service := &mockService{
		GetPatientFunc: func(ctx context.Context, id int64) (*Patient, error) {
			return nil, ErrPatientNotFound
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest("GET", "/patients/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestGetPatientHandlerInvalidID(t *testing.T) {
	router := newTestRouter(&mockService{})

	for _, id := range []string{"abc", "0", "-3"} {
		req := httptest.NewRequest("GET", "/patients/"+id, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("id %q: expected 400, got %d", id, rec.Code)
		}
	}
}

func TestSearchPatientsHandlerFilters(t *testing.T) {
	var gotFilters map[string]string
	service := &mockService{
		SearchPatientsFunc: func(ctx context.Context, filters map[string]string, params pagination.Params) (*PaginatedPatientListResponse, error) {
			gotFilters = filters
			return &PaginatedPatientListResponse{Success: true, Patients: []Patient{}}, nil
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest("GET", "/patients/search?city=Monterrey&bloodType=3&page=2&limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotFilters["city"] != "Monterrey" || gotFilters["bloodType"] != "3" {
		t.Errorf("expected attribute filters, got %v", gotFilters)
	}
	if _, ok := gotFilters["page"]; ok {
		t.Error("pagination params should not reach the filters")
	}
}

func TestSearchPatientsHandlerUnknownField(t *testing.T) {
	service := &mockService{
		SearchPatientsFunc: func(ctx context.Context, filters map[string]string, params pagination.Params) (*PaginatedPatientListResponse, error) {
			return nil, ErrUnknownField
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest("GET", "/patients/search?bogus=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestDeletePatientHandler(t *testing.T) {
	service := &mockService{
		DeletePatientFunc: func(ctx context.Context, id int64) error {
			return nil
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest("DELETE", "/patients/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
