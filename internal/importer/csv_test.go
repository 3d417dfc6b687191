package importer

import (
	"strings"
	"testing"
)

func TestReadRows(t *testing.T) {
	input := "name, city ,phone_number\n" +
		" Ana Ruiz ,Monterrey,555-0101\n" +
		",,\n" +
		"Bob\n"

	rows, err := ReadRows(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (blank row skipped), got %d", len(rows))
	}
	if rows[0]["name"] != "Ana Ruiz" || rows[0]["city"] != "Monterrey" {
		t.Errorf("expected trimmed cells, got %v", rows[0])
	}
	if rows[1]["name"] != "Bob" {
		t.Errorf("expected short row to keep its cells, got %v", rows[1])
	}
	if _, ok := rows[1]["city"]; ok {
		t.Errorf("expected short row to omit missing cells, got %v", rows[1])
	}
}

func TestReadRowsEmptyStream(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestReadRowsMalformed(t *testing.T) {
	if _, err := ReadRows(strings.NewReader("name\n\"unterminated")); err == nil {
		t.Error("expected malformed CSV to error")
	}
}

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"patients_2021-03-04.csv", FilePatients},
		{"PATIENTS.CSV", FilePatients},
		{"/tmp/export/consults_2021-03-04.csv", FileConsultations},
		{"Consults-old.csv", FileConsultations},
		{"notes.txt", ""},
	}
	for _, tt := range tests {
		if got := ClassifyFile(tt.name); got != tt.want {
			t.Errorf("ClassifyFile(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
