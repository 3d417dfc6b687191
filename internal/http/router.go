package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/auth"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/consultation"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/exporter"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/importer"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/messaging"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/patient"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/telemetry"
)

// SetupRouter initializes all routes for the application
func SetupRouter(db *sql.DB, sessions *auth.Sessions, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *mux.Router {
	patientRepo := patient.NewRepository(db)
	patientService := patient.NewServiceWithMetrics(patientRepo, publisher, patientMetrics(metrics))
	patientHandler := patient.NewHandler(patientService)

	consultationRepo := consultation.NewRepository(db)
	consultationService := consultation.NewServiceWithMetrics(consultationRepo, publisher, consultationMetrics(metrics))
	consultationHandler := consultation.NewHandler(consultationService)

	reconciler := importer.NewReconciler(patientRepo, consultationRepo, publisher, importMetrics(metrics))
	importHandler := importer.NewHandler(reconciler)

	exportHandler := exporter.NewHandler(exporter.New(patientRepo, consultationRepo))

	authHandler := auth.NewHandler(sessions)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("medical-control"))
	if metrics != nil {
		r.Use(metricsMiddleware(metrics))
	}

	// Public endpoints
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"medical-control"}`))
	}).Methods("GET")

	r.HandleFunc("/session", authHandler.CreateSession).Methods("POST")

	// Everything else requires a session token
	api := r.NewRoute().Subrouter()
	api.Use(auth.MiddlewareWithMetrics(sessions, authMetrics(metrics)))

	api.HandleFunc("/patients", patientHandler.CreatePatient).Methods("POST")
	api.HandleFunc("/patients", patientHandler.ListPatients).Methods("GET")
	api.HandleFunc("/patients/search", patientHandler.SearchPatients).Methods("GET")
	api.HandleFunc("/patients/{id}", patientHandler.GetPatient).Methods("GET")
	api.HandleFunc("/patients/{id}", patientHandler.UpdatePatient).Methods("PUT")
	api.HandleFunc("/patients/{id}", patientHandler.DeletePatient).Methods("DELETE")

	api.HandleFunc("/patients/{id}/consultations", consultationHandler.CreateConsultation).Methods("POST")
	api.HandleFunc("/patients/{id}/consultations", consultationHandler.ListByPatient).Methods("GET")
	api.HandleFunc("/consultations/{id}", consultationHandler.GetConsultation).Methods("GET")
	api.HandleFunc("/consultations/{id}", consultationHandler.UpdateConsultation).Methods("PUT")
	api.HandleFunc("/consultations/{id}", consultationHandler.DeleteConsultation).Methods("DELETE")

	api.HandleFunc("/import", importHandler.ImportCSV).Methods("POST")
	api.HandleFunc("/export", exportHandler.ExportCSV).Methods("GET")

	return r
}

// authMetrics narrows *telemetry.Metrics to the auth recorder, keeping the
// interface nil when metrics are disabled.
func authMetrics(m *telemetry.Metrics) auth.MetricsRecorder {
	if m == nil {
		return nil
	}
	return m
}

func importMetrics(m *telemetry.Metrics) importer.MetricsRecorder {
	if m == nil {
		return nil
	}
	return m
}

func patientMetrics(m *telemetry.Metrics) patient.MetricsRecorder {
	if m == nil {
		return nil
	}
	return m
}

func consultationMetrics(m *telemetry.Metrics) consultation.MetricsRecorder {
	if m == nil {
		return nil
	}
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware records request count and duration per route template.
func metricsMiddleware(metrics *telemetry.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			metrics.RecordHTTPRequest(r.Context(), r.Method, route, rec.status, float64(time.Since(start).Milliseconds()))
		})
	}
}
