package db

import (
	"strings"
	"testing"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/consultation"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/patient"
)

func TestPatientTableDDL(t *testing.T) {
	ddl := tableDDL("medicalcontrol.patients", patient.Registry, patientColumnOverrides, "medicalRecord")

	if !strings.HasPrefix(ddl, "CREATE TABLE IF NOT EXISTS medicalcontrol.patients (") {
		t.Fatalf("unexpected DDL prefix: %s", ddl)
	}
	if strings.Contains(ddl, "medical_record") {
		t.Error("derived medical_record column must not be stored")
	}
	if !strings.Contains(ddl, `"do" BOOLEAN`) {
		t.Error("reserved column names must be quoted")
	}
	if !strings.Contains(ddl, `"id" BIGSERIAL PRIMARY KEY`) {
		t.Error("id override missing")
	}
	if !strings.Contains(ddl, `"registered_at" TIMESTAMPTZ NOT NULL`) {
		t.Error("registered_at override missing")
	}
	if !strings.Contains(ddl, `"weight" DOUBLE PRECISION`) {
		t.Error("number fields should map to DOUBLE PRECISION")
	}
	if !strings.Contains(ddl, `"blood_type" INTEGER`) {
		t.Error("enum fields should map to INTEGER")
	}
	if !strings.Contains(ddl, `"birth_date" TIMESTAMPTZ`) {
		t.Error("date fields should map to TIMESTAMPTZ")
	}
}

func TestConsultationTableDDL(t *testing.T) {
	ddl := tableDDL("medicalcontrol.consultations", consultation.Registry, consultationColumnOverrides)

	if !strings.Contains(ddl, "REFERENCES medicalcontrol.patients(id) ON DELETE CASCADE") {
		t.Error("patient foreign key missing")
	}
	if !strings.Contains(ddl, `"date" TIMESTAMPTZ NOT NULL`) {
		t.Error("date override missing")
	}
	if !strings.Contains(ddl, `"procedure" TEXT`) {
		t.Error("procedure column missing")
	}
}
