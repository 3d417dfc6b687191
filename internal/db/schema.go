package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/consultation"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/patient"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/records"
)

// patientColumnOverrides are the patient columns whose DDL differs from the
// plain kind mapping. medical_record is absent on purpose: it is derived
// from the id and never stored.
var patientColumnOverrides = map[string]string{
	"id":            "BIGSERIAL PRIMARY KEY",
	"name":          "TEXT NOT NULL",
	"registered_at": "TIMESTAMPTZ NOT NULL",
	"gender":        "TEXT NOT NULL",
	"created_at":    "TIMESTAMPTZ NOT NULL DEFAULT now()",
	"updated_at":    "TIMESTAMPTZ",
}

var consultationColumnOverrides = map[string]string{
	"id":         "BIGSERIAL PRIMARY KEY",
	"patient_id": "BIGINT NOT NULL REFERENCES medicalcontrol.patients(id) ON DELETE CASCADE",
	"date":       "TIMESTAMPTZ NOT NULL",
	"created_at": "TIMESTAMPTZ NOT NULL DEFAULT now()",
	"updated_at": "TIMESTAMPTZ",
}

// EnsureSchema creates the schema and tables when missing. The column set
// is generated from the registries so the store and the CSV layer can never
// drift apart.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS medicalcontrol"); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	patientsDDL := tableDDL("medicalcontrol.patients", patient.Registry, patientColumnOverrides, "medicalRecord")
	if _, err := db.ExecContext(ctx, patientsDDL); err != nil {
		return fmt.Errorf("failed to create patients table: %w", err)
	}

	consultationsDDL := tableDDL("medicalcontrol.consultations", consultation.Registry, consultationColumnOverrides)
	if _, err := db.ExecContext(ctx, consultationsDDL); err != nil {
		return fmt.Errorf("failed to create consultations table: %w", err)
	}

	indexDDL := "CREATE INDEX IF NOT EXISTS consultations_patient_id_idx ON medicalcontrol.consultations (patient_id)"
	if _, err := db.ExecContext(ctx, indexDDL); err != nil {
		return fmt.Errorf("failed to create consultations index: %w", err)
	}

	log.Println("✓ Database schema ensured")
	return nil
}

func tableDDL(table string, reg *records.Registry, overrides map[string]string, skipNames ...string) string {
	skip := make(map[string]bool, len(skipNames))
	for _, n := range skipNames {
		skip[n] = true
	}

	var cols []string
	for _, f := range reg.Fields() {
		if skip[f.Name] {
			continue
		}
		ddl, ok := overrides[f.Column]
		if !ok {
			ddl = columnType(f.Kind)
		}
		cols = append(cols, fmt.Sprintf("%s %s", pq.QuoteIdentifier(f.Column), ddl))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(cols, ", "))
}

func columnType(kind records.Kind) string {
	switch kind {
	case records.Date:
		return "TIMESTAMPTZ"
	case records.Bool:
		return "BOOLEAN"
	case records.Number:
		return "DOUBLE PRECISION"
	case records.Enum:
		return "INTEGER"
	default:
		return "TEXT"
	}
}
