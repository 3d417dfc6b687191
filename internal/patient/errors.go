package patient

import "errors"

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrMissingName       = errors.New("name is required")
	ErrMissingGender     = errors.New("gender is required")
	ErrInvalidGender     = errors.New("gender must be male or female")
	ErrInvalidRegistered = errors.New("invalid registration timestamp")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
	ErrUnknownField      = errors.New("unknown patient field")
)
