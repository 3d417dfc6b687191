package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/consultation"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/messaging"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/patient"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/records"
)

// RowError is one recoverable problem from an import run. Row is the
// 1-based data row number; file-level errors carry Row 0.
type RowError struct {
	Row    int
	Entity string // "patient", "consultation" or "file"
	Kind   string // "missing_field", "bad_date", "bad_reference", "unresolved_patient", "duplicate", "store", "file"
	Detail string
}

func (e RowError) String() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s: %s", e.Entity, e.Detail)
	}
	return fmt.Sprintf("%s row %d: %s", e.Entity, e.Row, e.Detail)
}

func (e RowError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// Summary is the outcome of one import run. Partial success is the
// expected steady state: Success stays true as long as the run itself ran
// to completion, however many rows were rejected.
type Summary struct {
	Success               bool       `json:"success"`
	PatientsImported      int        `json:"imported_patients"`
	ConsultationsImported int        `json:"imported_consultations"`
	Errors                []RowError `json:"errors,omitempty"`
}

// MetricsRecorder receives one observation per processed row.
type MetricsRecorder interface {
	RecordImportRow(ctx context.Context, entity, outcome string)
}

// Reconciler merges external CSV datasets into the store: patients first,
// then consultations against the identity map the patient pass built.
type Reconciler struct {
	patients      PatientStore
	consultations ConsultationStore
	publisher     messaging.PublisherInterface
	metrics       MetricsRecorder
}

func NewReconciler(patients PatientStore, consultations ConsultationStore, publisher messaging.PublisherInterface, metrics MetricsRecorder) *Reconciler {
	return &Reconciler{
		patients:      patients,
		consultations: consultations,
		publisher:     publisher,
		metrics:       metrics,
	}
}

// NamedReader pairs an input stream with the file name used to classify it.
type NamedReader struct {
	Name   string
	Reader io.Reader
}

// RunFiles classifies and parses each file, then runs the import. An
// unrecognized or malformed file contributes one file-level error and the
// remaining files still proceed.
func (r *Reconciler) RunFiles(ctx context.Context, files []NamedReader) *Summary {
	var patientRows, consultationRows []Row
	var fileErrors []RowError

	for _, f := range files {
		kind := ClassifyFile(f.Name)
		if kind == "" {
			fileErrors = append(fileErrors, RowError{
				Entity: "file",
				Kind:   "file",
				Detail: fmt.Sprintf("unrecognized file %q: expected a name starting with patients or consults", f.Name),
			})
			continue
		}
		rows, err := ReadRows(f.Reader)
		if err != nil {
			fileErrors = append(fileErrors, RowError{
				Entity: "file",
				Kind:   "file",
				Detail: fmt.Sprintf("%s: %v", f.Name, err),
			})
			continue
		}
		if kind == FilePatients {
			patientRows = append(patientRows, rows...)
		} else {
			consultationRows = append(consultationRows, rows...)
		}
	}

	summary := r.Run(ctx, patientRows, consultationRows)
	summary.Errors = append(fileErrors, summary.Errors...)
	return summary
}

// runState carries the per-run identity map and the store ids already
// written this run, for duplicate-target detection.
type runState struct {
	resolver *identityResolver
	applied  map[int64]int // store id -> data row that first wrote it
}

// Run executes the two-pass import. The consultation pass never starts
// before the patient pass completes: consultation rows depend on the fully
// built identity map.
func (r *Reconciler) Run(ctx context.Context, patientRows, consultationRows []Row) *Summary {
	runID := uuid.New().String()
	log.Printf("Starting import run %s: %d patient rows, %d consultation rows",
		runID, len(patientRows), len(consultationRows))

	run := &runState{
		resolver: newIdentityResolver(r.patients),
		applied:  make(map[int64]int),
	}
	summary := &Summary{Success: true}

	r.importPatients(ctx, run, patientRows, summary)
	r.importConsultations(ctx, run, consultationRows, summary)

	log.Printf("✓ Import run %s finished: %d patients, %d consultations, %d errors",
		runID, summary.PatientsImported, summary.ConsultationsImported, len(summary.Errors))

	r.publishCompleted(ctx, runID, summary)
	return summary
}

func (r *Reconciler) importPatients(ctx context.Context, run *runState, rows []Row, summary *Summary) {
	for i, row := range rows {
		rowNum := i + 1
		outcome := r.importPatientRow(ctx, run, rowNum, row, summary)
		r.recordRow(ctx, "patient", outcome)
	}
}

func (r *Reconciler) importPatientRow(ctx context.Context, run *runState, rowNum int, row Row, summary *Summary) string {
	fields := ToInternal(row, patient.Registry)

	var externalID int64
	hasExternalID := false
	if raw := stringField(fields, "id"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			externalID = n
			hasExternalID = true
		}
	}

	name := TitleizeName(stringField(fields, "name"))
	candidate, name, err := run.resolver.resolve(ctx, externalID, hasExternalID, name)
	if err != nil {
		summary.Errors = append(summary.Errors, storeRowError(rowNum, "patient", err))
		return "error"
	}
	fields["name"] = name

	if candidate == nil && name == "" {
		summary.Errors = append(summary.Errors, RowError{
			Row: rowNum, Entity: "patient", Kind: "missing_field",
			Detail: "name is required for new patients",
		})
		return "error"
	}

	// Registration date: required on create (defaulting to now), left
	// untouched on update when the row is blank.
	if raw := stringField(fields, "registeredAt"); raw != "" {
		t, ok := NormalizeDate(raw)
		if !ok {
			summary.Errors = append(summary.Errors, RowError{
				Row: rowNum, Entity: "patient", Kind: "bad_date",
				Detail: fmt.Sprintf("invalid registration date %q", raw),
			})
			return "error"
		}
		fields["registeredAt"] = t
	} else if candidate == nil {
		fields["registeredAt"] = time.Now().UTC()
	} else {
		delete(fields, "registeredAt")
	}

	normalizePatientFields(fields)
	fields = CleanFields(fields)

	var stored *patient.Patient
	if candidate != nil {
		if prev, dup := run.applied[candidate.ID]; dup {
			summary.Errors = append(summary.Errors, RowError{
				Row: rowNum, Entity: "patient", Kind: "duplicate",
				Detail: fmt.Sprintf("row targets patient %d already written by row %d", candidate.ID, prev),
			})
		}
		stored, err = r.patients.UpdatePatient(ctx, candidate.ID, fields)
	} else {
		stored, err = r.patients.CreatePatient(ctx, fields)
	}
	if err != nil {
		summary.Errors = append(summary.Errors, storeRowError(rowNum, "patient", err))
		return "error"
	}

	if _, dup := run.applied[stored.ID]; !dup {
		run.applied[stored.ID] = rowNum
	}
	if hasExternalID {
		run.resolver.record(externalID, stored.ID)
	}
	summary.PatientsImported++
	if candidate != nil {
		return "updated"
	}
	return "created"
}

// normalizePatientFields applies per-kind value normalization in place:
// secondary dates, study flags, numeric fields and the sex enumeration.
// Only keys present in the row are touched, so a partial row never zeroes
// columns it did not mention.
func normalizePatientFields(fields map[string]any) {
	for _, f := range patient.Registry.Fields() {
		if f.Name == "registeredAt" || f.Name == "createdAt" || f.Name == "updatedAt" {
			continue
		}
		raw, present := fields[f.Name]
		if !present {
			continue
		}
		switch f.Name {
		case "gender":
			fields[f.Name] = strings.ToLower(stringField(fields, "gender"))
			continue
		}
		s, isString := raw.(string)
		if !isString {
			continue
		}
		switch f.Kind {
		case records.Date:
			if t, ok := NormalizeDate(s); ok {
				fields[f.Name] = t
			} else {
				fields[f.Name] = nil
			}
		case records.Bool:
			fields[f.Name] = NormalizeBoolean(s)
		case records.Number, records.Enum:
			if f.Name == "id" {
				continue
			}
			if n, ok := NormalizeNumber(s); ok {
				fields[f.Name] = n
			} else {
				fields[f.Name] = nil
			}
		}
	}
}

func (r *Reconciler) importConsultations(ctx context.Context, run *runState, rows []Row, summary *Summary) {
	for i, row := range rows {
		rowNum := i + 1
		outcome := r.importConsultationRow(ctx, run, rowNum, row, summary)
		r.recordRow(ctx, "consultation", outcome)
	}
}

func (r *Reconciler) importConsultationRow(ctx context.Context, run *runState, rowNum int, row Row, summary *Summary) string {
	fields := ToInternal(row, consultation.Registry)

	ref := stringField(fields, "patientId")
	rawDate := stringField(fields, "date")
	if ref == "" || rawDate == "" {
		summary.Errors = append(summary.Errors, RowError{
			Row: rowNum, Entity: "consultation", Kind: "missing_field",
			Detail: "patient reference and date are required",
		})
		return "error"
	}

	externalID, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		summary.Errors = append(summary.Errors, RowError{
			Row: rowNum, Entity: "consultation", Kind: "bad_reference",
			Detail: fmt.Sprintf("patient reference %q is not a number", ref),
		})
		return "error"
	}

	patientID, found, err := run.resolver.lookup(ctx, externalID)
	if err != nil {
		summary.Errors = append(summary.Errors, storeRowError(rowNum, "consultation", err))
		return "error"
	}
	if !found {
		summary.Errors = append(summary.Errors, RowError{
			Row: rowNum, Entity: "consultation", Kind: "unresolved_patient",
			Detail: fmt.Sprintf("no patient found for reference %d", externalID),
		})
		return "error"
	}

	date, ok := NormalizeDate(rawDate)
	if !ok {
		summary.Errors = append(summary.Errors, RowError{
			Row: rowNum, Entity: "consultation", Kind: "bad_date",
			Detail: fmt.Sprintf("invalid date %q", rawDate),
		})
		return "error"
	}

	_, err = r.consultations.CreateConsultation(ctx, consultation.CreateConsultationParams{
		PatientID: patientID,
		Date:      date,
		Procedure: stringField(fields, "procedure"),
		Meds:      stringField(fields, "meds"),
	})
	if err != nil {
		summary.Errors = append(summary.Errors, storeRowError(rowNum, "consultation", err))
		return "error"
	}
	summary.ConsultationsImported++
	return "created"
}

func (r *Reconciler) recordRow(ctx context.Context, entity, outcome string) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordImportRow(ctx, entity, outcome)
}

func (r *Reconciler) publishCompleted(ctx context.Context, runID string, summary *Summary) {
	if r.publisher == nil {
		return
	}
	event := messaging.ImportCompletedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventImportCompleted),
		Data: messaging.ImportCompletedData{
			RunID:                 runID,
			PatientsImported:      summary.PatientsImported,
			ConsultationsImported: summary.ConsultationsImported,
			ErrorCount:            len(summary.Errors),
			CompletedAt:           time.Now().UTC(),
		},
	}
	if err := r.publisher.Publish(ctx, messaging.EventImportCompleted, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", messaging.EventImportCompleted, err)
	}
}

// storeRowError shapes a store failure as a row error, surfacing the
// offending column when the driver reports one.
func storeRowError(row int, entity string, err error) RowError {
	detail := err.Error()
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Column != "" {
		detail = fmt.Sprintf("%s (field %s)", pqErr.Message, pqErr.Column)
	}
	return RowError{Row: row, Entity: entity, Kind: "store", Detail: detail}
}

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}
