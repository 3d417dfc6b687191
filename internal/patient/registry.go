package patient

import "github.com/itsmeurbi/medical-control-electron-sub000/internal/records"

// Registry is the fixed column/field correspondence for patient records.
// The order is the external CSV layout and must not change: exported files
// are re-imported by other installations against this exact header.
var Registry = records.NewRegistry([]records.Field{
	{Column: "id", Name: "id", Kind: records.Number},
	{Column: "name", Name: "name", Kind: records.Text},
	{Column: "birth_date", Name: "birthDate", Kind: records.Date},
	{Column: "city", Name: "city", Kind: records.Text},
	{Column: "address", Name: "address", Kind: records.Text},
	{Column: "phone_number", Name: "phoneNumber", Kind: records.Text},
	{Column: "medical_record", Name: "medicalRecord", Kind: records.Text},
	{Column: "registered_at", Name: "registeredAt", Kind: records.Date},
	{Column: "gender", Name: "gender", Kind: records.Text},
	{Column: "marital_status", Name: "maritalStatus", Kind: records.Enum},
	{Column: "reference", Name: "reference", Kind: records.Text},
	{Column: "occupations", Name: "occupations", Kind: records.Text},
	{Column: "primary_dx", Name: "primaryDx", Kind: records.Text},
	{Column: "initial_dx", Name: "initialDx", Kind: records.Text},
	{Column: "final_dx", Name: "finalDx", Kind: records.Text},
	{Column: "medical_background", Name: "medicalBackground", Kind: records.Text},
	{Column: "surgical_background", Name: "surgicalBackground", Kind: records.Text},
	{Column: "interventionism_tx", Name: "interventionismTx", Kind: records.Text},
	{Column: "pain_type", Name: "painType", Kind: records.Text},
	{Column: "pain_localization", Name: "painLocalization", Kind: records.Text},
	{Column: "pain_evolution", Name: "painEvolution", Kind: records.Text},
	{Column: "pain_duration", Name: "painDuration", Kind: records.Text},
	{Column: "pain_initial_state", Name: "painInitialState", Kind: records.Text},
	{Column: "pain_current_state", Name: "painCurrentState", Kind: records.Text},
	{Column: "alergies", Name: "alergies", Kind: records.Text},
	{Column: "irradiations", Name: "irradiations", Kind: records.Text},
	{Column: "evaluation", Name: "evaluation", Kind: records.Text},
	{Column: "evera", Name: "evera", Kind: records.Text},
	{Column: "previous_tx", Name: "previousTx", Kind: records.Text},
	{Column: "blood_type", Name: "bloodType", Kind: records.Enum},
	{Column: "rh_factor", Name: "rhFactor", Kind: records.Enum},
	{Column: "weight", Name: "weight", Kind: records.Number},
	{Column: "height", Name: "height", Kind: records.Number},
	{Column: "blood_pressure", Name: "bloodPressure", Kind: records.Text},
	{Column: "heart_rate", Name: "heartRate", Kind: records.Number},
	{Column: "breath_rate", Name: "breathRate", Kind: records.Number},
	{Column: "general_inspection", Name: "generalInspection", Kind: records.Text},
	{Column: "head", Name: "head", Kind: records.Text},
	{Column: "abdomen", Name: "abdomen", Kind: records.Text},
	{Column: "neck", Name: "neck", Kind: records.Text},
	{Column: "extremities", Name: "extremities", Kind: records.Text},
	{Column: "spine", Name: "spine", Kind: records.Text},
	{Column: "chest", Name: "chest", Kind: records.Text},
	{Column: "laboratory", Name: "laboratory", Kind: records.Text},
	{Column: "cabinet", Name: "cabinet", Kind: records.Text},
	{Column: "consultations", Name: "consultations", Kind: records.Text},
	{Column: "requested_studies", Name: "requestedStudies", Kind: records.Text},
	{Column: "created_at", Name: "createdAt", Kind: records.Date},
	{Column: "updated_at", Name: "updatedAt", Kind: records.Date},
	{Column: "anticoagulants", Name: "anticoagulants", Kind: records.Text},
	{Column: "cellphone_number", Name: "cellphoneNumber", Kind: records.Text},
	{Column: "chronics", Name: "chronics", Kind: records.Text},
	{Column: "fiscal_situation", Name: "fiscalSituation", Kind: records.Enum},
	{Column: "email", Name: "email", Kind: records.Text},
	{Column: "zip_code", Name: "zipCode", Kind: records.Text},
	{Column: "rx", Name: "rx", Kind: records.Bool},
	{Column: "cat", Name: "cat", Kind: records.Bool},
	{Column: "mri", Name: "mri", Kind: records.Bool},
	{Column: "us", Name: "us", Kind: records.Bool},
	{Column: "do", Name: "do", Kind: records.Bool},
	{Column: "emg", Name: "emg", Kind: records.Bool},
	{Column: "spo2", Name: "spo2", Kind: records.Number},
	{Column: "increases_with", Name: "increasesWith", Kind: records.Text},
	{Column: "decreases_with", Name: "decreasesWith", Kind: records.Text},
	{Column: "cellphone_number_two", Name: "cellphoneNumberTwo", Kind: records.Text},
	{Column: "cellphone_number_three", Name: "cellphoneNumberThree", Kind: records.Text},
})

// StudyFlags are the requested-study checkboxes, stored as booleans.
var StudyFlags = []string{"rx", "cat", "mri", "us", "do", "emg"}

// NumericFields are the fields whose CSV values are parsed as numbers and
// stored as null when unparseable.
var NumericFields = []string{
	"maritalStatus", "bloodType", "rhFactor", "fiscalSituation",
	"weight", "height", "heartRate", "breathRate", "spo2",
}

// managedFields are assigned by the store and never writable by callers.
// medicalRecord is derived from the id and not stored at all.
var managedFields = map[string]bool{
	"id":            true,
	"medicalRecord": true,
	"createdAt":     true,
	"updatedAt":     true,
}

// Writable reports whether callers may set the field on create or update.
func Writable(name string) bool {
	return Registry.Has(name) && !managedFields[name]
}
