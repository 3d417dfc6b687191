package consultation

import "github.com/itsmeurbi/medical-control-electron-sub000/internal/records"

// Registry is the fixed column/field correspondence for consultation
// records; the order is the external CSV layout.
var Registry = records.NewRegistry([]records.Field{
	{Column: "id", Name: "id", Kind: records.Number},
	{Column: "patient_id", Name: "patientId", Kind: records.Number},
	{Column: "procedure", Name: "procedure", Kind: records.Text},
	{Column: "meds", Name: "meds", Kind: records.Text},
	{Column: "date", Name: "date", Kind: records.Date},
	{Column: "created_at", Name: "createdAt", Kind: records.Date},
	{Column: "updated_at", Name: "updatedAt", Kind: records.Date},
})
