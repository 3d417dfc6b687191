package consultation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const table = "medicalcontrol.consultations"

const selectList = `id, patient_id, "procedure", meds, "date", created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsultation(row rowScanner) (*Consultation, error) {
	var c Consultation
	var procedure sql.NullString
	var meds sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.PatientID,
		&procedure,
		&meds,
		&c.Date,
		&c.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if procedure.Valid {
		c.Procedure = procedure.String
	}
	if meds.Valid {
		c.Meds = meds.String
	}
	if updatedAt.Valid {
		c.UpdatedAt = &updatedAt.Time
	}
	return &c, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *Repository) CreateConsultation(ctx context.Context, params CreateConsultationParams) (*Consultation, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (patient_id, "procedure", meds, "date", created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, table, selectList)

	c, err := scanConsultation(r.db.QueryRowContext(ctx, query,
		params.PatientID,
		nullable(params.Procedure),
		nullable(params.Meds),
		params.Date,
		time.Now().UTC(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert consultation: %w", err)
	}
	return c, nil
}

func (r *Repository) GetConsultation(ctx context.Context, id int64) (*Consultation, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", selectList, table)

	c, err := scanConsultation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrConsultationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query consultation: %w", err)
	}
	return c, nil
}

// ListByPatient returns all consultations for one patient, newest first.
func (r *Repository) ListByPatient(ctx context.Context, patientID int64) ([]Consultation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE patient_id = $1 ORDER BY "date" DESC`, selectList, table)

	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query consultations: %w", err)
	}
	defer rows.Close()

	return collectConsultations(rows)
}

func collectConsultations(rows *sql.Rows) ([]Consultation, error) {
	var consultations []Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan consultation: %w", err)
		}
		consultations = append(consultations, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating consultations: %w", err)
	}
	return consultations, nil
}

func (r *Repository) UpdateConsultation(ctx context.Context, id int64, req UpdateConsultationRequest) (*Consultation, error) {
	var updates []string
	var args []any
	argIndex := 1

	if req.Date != nil {
		t, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDate, *req.Date)
		}
		updates = append(updates, fmt.Sprintf(`"date" = $%d`, argIndex))
		args = append(args, t.UTC())
		argIndex++
	}
	if req.Procedure != nil {
		updates = append(updates, fmt.Sprintf(`"procedure" = $%d`, argIndex))
		args = append(args, nullable(*req.Procedure))
		argIndex++
	}
	if req.Meds != nil {
		updates = append(updates, fmt.Sprintf("meds = $%d", argIndex))
		args = append(args, nullable(*req.Meds))
		argIndex++
	}

	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now().UTC())
	argIndex++

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(updates, ", "), argIndex, selectList,
	)

	c, err := scanConsultation(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrConsultationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update consultation: %w", err)
	}
	return c, nil
}

func (r *Repository) DeleteConsultation(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete consultation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrConsultationNotFound
	}
	return nil
}

func (r *Repository) CountConsultations(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count consultations: %w", err)
	}
	return total, nil
}

// ExportRows returns every consultation as a field map keyed by internal
// field name, in id order.
func (r *Repository) ExportRows(ctx context.Context) ([]map[string]any, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", selectList, table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query consultations for export: %w", err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan consultation: %w", err)
		}
		row := map[string]any{
			"id":        c.ID,
			"patientId": c.PatientID,
			"date":      c.Date,
			"createdAt": c.CreatedAt,
		}
		if c.Procedure != "" {
			row["procedure"] = c.Procedure
		}
		if c.Meds != "" {
			row["meds"] = c.Meds
		}
		if c.UpdatedAt != nil {
			row["updatedAt"] = *c.UpdatedAt
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating consultations: %w", err)
	}
	return out, nil
}
