package consultation

import "errors"

var (
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrMissingPatient       = errors.New("patient id is required")
	ErrMissingDate          = errors.New("date is required")
	ErrInvalidDate          = errors.New("invalid consultation date")
	ErrEmptyRecord          = errors.New("at least one of procedure or meds is required")
	ErrNoFieldsToUpdate     = errors.New("no fields to update")
)
