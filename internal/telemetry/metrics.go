package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	PatientTotal      metric.Int64Counter
	ConsultationTotal metric.Int64Counter
	ImportRowsTotal   metric.Int64Counter
	ImportErrorsTotal metric.Int64Counter

	// Auth metrics
	AuthFailuresTotal metric.Int64Counter
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/itsmeurbi/medical-control-electron-sub000")

	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	patientTotal, err := meter.Int64Counter(
		"patient_total",
		metric.WithDescription("Total number of patient operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	consultationTotal, err := meter.Int64Counter(
		"consultation_total",
		metric.WithDescription("Total number of consultation operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	importRowsTotal, err := meter.Int64Counter(
		"import_rows_total",
		metric.WithDescription("Total number of processed import rows"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, err
	}

	importErrorsTotal, err := meter.Int64Counter(
		"import_errors_total",
		metric.WithDescription("Total number of rejected import rows"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, err
	}

	authFailuresTotal, err := meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of authentication failures"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	log.Println("✓ Custom metrics initialized")

	return &Metrics{
		HTTPRequestsTotal: httpRequestsTotal,
		HTTPDurationMs:    httpDurationMs,
		PatientTotal:      patientTotal,
		ConsultationTotal: consultationTotal,
		ImportRowsTotal:   importRowsTotal,
		ImportErrorsTotal: importErrorsTotal,
		AuthFailuresTotal: authFailuresTotal,
	}, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordPatientOperation records a patient operation metric
func (m *Metrics) RecordPatientOperation(ctx context.Context, operation string) {
	m.PatientTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordConsultationOperation records a consultation operation metric
func (m *Metrics) RecordConsultationOperation(ctx context.Context, operation string) {
	m.ConsultationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordImportRow records one processed import row with its outcome
// ("created", "updated" or "error").
func (m *Metrics) RecordImportRow(ctx context.Context, entity, outcome string) {
	attrs := []attribute.KeyValue{
		attribute.String("entity", entity),
		attribute.String("outcome", outcome),
	}
	m.ImportRowsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	if outcome == "error" {
		m.ImportErrorsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}
