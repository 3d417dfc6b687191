package exporter

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/consultation"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/importer"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/patient"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/records"
)

// Source yields every stored record of one entity as internal field maps.
type Source interface {
	ExportRows(ctx context.Context) ([]map[string]any, error)
}

// Exporter renders the full store as a ZIP archive of two CSV files, in
// the exact external column layout the importer accepts back.
type Exporter struct {
	patients      Source
	consultations Source
}

func New(patients, consultations Source) *Exporter {
	return &Exporter{patients: patients, consultations: consultations}
}

// ArchiveName is the suggested file name for an export produced now.
func ArchiveName(now time.Time) string {
	return fmt.Sprintf("medical_control_export_%s.zip", now.UTC().Format("2006-01-02"))
}

func entryName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.UTC().Format("2006-01-02"))
}

// WriteArchive streams the archive to w. Entry names carry the export date
// so re-importing classifies them by their prefixes.
func (e *Exporter) WriteArchive(ctx context.Context, w io.Writer) error {
	now := time.Now().UTC()
	zw := zip.NewWriter(w)

	if err := e.writeEntity(ctx, zw, entryName("patients", now), e.patients, patient.Registry); err != nil {
		zw.Close()
		return fmt.Errorf("failed to export patients: %w", err)
	}
	if err := e.writeEntity(ctx, zw, entryName("consults", now), e.consultations, consultation.Registry); err != nil {
		zw.Close()
		return fmt.Errorf("failed to export consultations: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize export archive: %w", err)
	}
	return nil
}

func (e *Exporter) writeEntity(ctx context.Context, zw *zip.Writer, name string, src Source, reg *records.Registry) error {
	rows, err := src.ExportRows(ctx)
	if err != nil {
		return err
	}

	f, err := zw.Create(name)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	columns := reg.Columns()
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, fields := range rows {
		external := importer.ToExternal(fields, reg)
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = external[col]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
