package patient

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/records"
)

const table = "medicalcontrol.patients"

// selectFields is the registry minus the derived medical_record column,
// in registry order. medical_record is never stored; it is recomputed
// from the id on every read.
var selectFields []records.Field

var selectList string

func init() {
	for _, f := range Registry.Fields() {
		if f.Name == "medicalRecord" {
			continue
		}
		selectFields = append(selectFields, f)
	}
	cols := make([]string, len(selectFields))
	for i, f := range selectFields {
		cols[i] = pq.QuoteIdentifier(f.Column)
	}
	selectList = strings.Join(cols, ", ")
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*Patient, error) {
	dest := make([]any, len(selectFields))
	for i, f := range selectFields {
		switch f.Name {
		case "id":
			dest[i] = new(int64)
		case "name", "gender":
			dest[i] = new(string)
		case "registeredAt", "createdAt":
			dest[i] = new(time.Time)
		default:
			switch f.Kind {
			case records.Date:
				dest[i] = new(sql.NullTime)
			case records.Bool:
				dest[i] = new(sql.NullBool)
			case records.Number:
				dest[i] = new(sql.NullFloat64)
			case records.Enum:
				dest[i] = new(sql.NullInt64)
			default:
				dest[i] = new(sql.NullString)
			}
		}
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	p := &Patient{Fields: make(map[string]any)}
	for i, f := range selectFields {
		switch f.Name {
		case "id":
			p.ID = *dest[i].(*int64)
		case "name":
			p.Name = *dest[i].(*string)
		case "gender":
			p.Gender = *dest[i].(*string)
		case "registeredAt":
			p.RegisteredAt = *dest[i].(*time.Time)
		case "createdAt":
			p.CreatedAt = *dest[i].(*time.Time)
		case "updatedAt":
			if v := dest[i].(*sql.NullTime); v.Valid {
				t := v.Time
				p.UpdatedAt = &t
			}
		default:
			switch v := dest[i].(type) {
			case *sql.NullTime:
				if v.Valid {
					p.Fields[f.Name] = v.Time
				}
			case *sql.NullBool:
				if v.Valid {
					p.Fields[f.Name] = v.Bool
				}
			case *sql.NullFloat64:
				if v.Valid {
					p.Fields[f.Name] = v.Float64
				}
			case *sql.NullInt64:
				if v.Valid {
					p.Fields[f.Name] = v.Int64
				}
			case *sql.NullString:
				if v.Valid {
					p.Fields[f.Name] = v.String
				}
			}
		}
	}
	p.MedicalRecord = MedicalRecordLabel(p.ID)
	if len(p.Fields) == 0 {
		p.Fields = nil
	}
	return p, nil
}

// splitWritable separates a caller-supplied field set into columns and
// arguments, dropping unregistered or store-managed keys. Unknown keys are
// never interpolated into SQL.
func splitWritable(fields map[string]any) (cols []string, args []any) {
	for _, f := range Registry.Fields() {
		v, ok := fields[f.Name]
		if !ok {
			continue
		}
		if !Writable(f.Name) {
			continue
		}
		cols = append(cols, f.Column)
		args = append(args, v)
	}
	for name := range fields {
		if !Registry.Has(name) {
			log.Printf("Warning: dropping unrecognized patient field %q", name)
		}
	}
	return cols, args
}

func (r *Repository) CreatePatient(ctx context.Context, fields map[string]any) (*Patient, error) {
	cols, args := splitWritable(fields)
	cols = append(cols, "created_at")
	args = append(args, time.Now().UTC())

	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pq.QuoteIdentifier(c)
		marks[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(quoted, ", "), strings.Join(marks, ", "), selectList,
	)

	p, err := scanPatient(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert patient: %w", err)
	}
	return p, nil
}

func (r *Repository) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", selectList, table)

	p, err := scanPatient(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}
	return p, nil
}

// FindPatientsByName returns all patients whose stored name matches
// exactly, ordered by id.
func (r *Repository) FindPatientsByName(ctx context.Context, name string) ([]Patient, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE name = $1 ORDER BY id", selectList, table)

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients by name: %w", err)
	}
	defer rows.Close()

	return collectPatients(rows)
}

func collectPatients(rows *sql.Rows) ([]Patient, error) {
	var patients []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}
	return patients, nil
}

// ListPatients returns a page of patients, optionally filtered by a
// case-insensitive name substring, plus the unpaged total.
func (r *Repository) ListPatients(ctx context.Context, limit, offset int, search string) ([]Patient, int, error) {
	where := ""
	var args []any
	if search != "" {
		where = "WHERE name ILIKE $1"
		args = append(args, "%"+search+"%")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", table, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		selectList, table, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	patients, err := collectPatients(rows)
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

// SearchPatients filters on any registered attribute. Text fields match as
// case-insensitive substrings; dates match on the calendar day; boolean and
// numeric fields match exactly.
func (r *Repository) SearchPatients(ctx context.Context, filters map[string]string, limit, offset int) ([]Patient, int, error) {
	var conds []string
	var args []any
	argIndex := 1

	for _, f := range Registry.Fields() {
		value, ok := filters[f.Name]
		if !ok || value == "" {
			continue
		}
		if f.Name == "medicalRecord" || f.Name == "id" {
			// identity filters hit the primary key path instead
			continue
		}
		col := pq.QuoteIdentifier(f.Column)
		switch f.Kind {
		case records.Text:
			conds = append(conds, fmt.Sprintf("%s ILIKE $%d", col, argIndex))
			args = append(args, "%"+value+"%")
		case records.Date:
			conds = append(conds, fmt.Sprintf("DATE(%s) = $%d", col, argIndex))
			args = append(args, value)
		case records.Bool:
			conds = append(conds, fmt.Sprintf("%s = $%d", col, argIndex))
			args = append(args, value == "true" || value == "1")
		default:
			conds = append(conds, fmt.Sprintf("%s = $%d", col, argIndex))
			args = append(args, value)
		}
		argIndex++
	}
	for name := range filters {
		if !Registry.Has(name) {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", table, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s %s ORDER BY name, id LIMIT $%d OFFSET $%d",
		selectList, table, where, argIndex, argIndex+1,
	)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search patients: %w", err)
	}
	defer rows.Close()

	patients, err := collectPatients(rows)
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *Repository) UpdatePatient(ctx context.Context, id int64, fields map[string]any) (*Patient, error) {
	cols, args := splitWritable(fields)
	if len(cols) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	updates := make([]string, 0, len(cols)+1)
	argIndex := 1
	for _, c := range cols {
		updates = append(updates, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(c), argIndex))
		argIndex++
	}
	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now().UTC())
	argIndex++

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(updates, ", "), argIndex, selectList,
	)

	p, err := scanPatient(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return p, nil
}

// DeletePatient removes the patient. Owned consultations go with it via
// the foreign key cascade.
func (r *Repository) DeletePatient(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func (r *Repository) CountPatients(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return total, nil
}

// ExportRows returns every patient as a field map keyed by internal field
// name, in id order, with the derived medicalRecord included.
func (r *Repository) ExportRows(ctx context.Context) ([]map[string]any, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", selectList, table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients for export: %w", err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		out = append(out, patientRow(p))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}
	return out, nil
}

func patientRow(p *Patient) map[string]any {
	row := make(map[string]any, len(p.Fields)+7)
	for k, v := range p.Fields {
		row[k] = v
	}
	row["id"] = p.ID
	row["name"] = p.Name
	row["registeredAt"] = p.RegisteredAt
	row["gender"] = p.Gender
	row["medicalRecord"] = p.MedicalRecord
	row["createdAt"] = p.CreatedAt
	if p.UpdatedAt != nil {
		row["updatedAt"] = *p.UpdatedAt
	}
	return row
}
