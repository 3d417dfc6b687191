package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// File kinds recognized by ClassifyFile.
const (
	FilePatients      = "patients"
	FileConsultations = "consultations"
)

// ClassifyFile decides what a CSV file contains from its base name,
// case-insensitively. Unrecognized names return "".
func ClassifyFile(name string) string {
	base := strings.ToLower(filepath.Base(name))
	switch {
	case strings.HasPrefix(base, "patients"):
		return FilePatients
	case strings.HasPrefix(base, "consults"):
		return FileConsultations
	default:
		return ""
	}
}

// ReadRows parses a CSV stream into rows keyed by the header line. Cell
// values and header names are trimmed, rows with every cell blank are
// skipped, and short rows are tolerated. An empty stream yields no rows.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed CSV record: %w", err)
		}

		row := make(Row, len(header))
		empty := true
		for i, col := range header {
			if col == "" || i >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[i])
			row[col] = value
			if value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
