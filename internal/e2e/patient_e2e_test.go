//go:build integration

package e2e

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/testutil"
)

// TestE2E_PatientLifecycle covers create, read, update, search and delete
// against a real database, with lifecycle events asserted along the way.
func TestE2E_PatientLifecycle(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	client := ts.NewClient(ts.SessionToken(t))

	createBody := map[string]interface{}{
		"name":          "Ana Ruiz",
		"gender":        "female",
		"registered_at": "2021-03-04T10:30:00Z",
		"fields": map[string]interface{}{
			"city":   "Monterrey",
			"weight": 62.5,
			"rx":     true,
		},
	}

	createResp := client.POST(t, "/patients", createBody)
	testutil.AssertStatusCode(t, createResp, http.StatusCreated)

	var created struct {
		Success bool `json:"success"`
		Patient struct {
			ID            int64                  `json:"id"`
			Name          string                 `json:"name"`
			MedicalRecord string                 `json:"medical_record"`
			Fields        map[string]interface{} `json:"fields"`
		} `json:"patient"`
	}
	testutil.DecodeJSON(t, createResp, &created)

	if !created.Success {
		t.Error("Expected success to be true")
	}
	if created.Patient.MedicalRecord != fmt.Sprintf("MC-%05d", created.Patient.ID) {
		t.Errorf("Expected derived record label, got %q", created.Patient.MedicalRecord)
	}
	if created.Patient.Fields["city"] != "Monterrey" {
		t.Errorf("Expected stored city, got %v", created.Patient.Fields)
	}
	ts.MockPublisher.AssertEventPublished(t, "patient.created")

	patientPath := fmt.Sprintf("/patients/%d", created.Patient.ID)

	getResp := client.GET(t, patientPath)
	testutil.AssertStatusCode(t, getResp, http.StatusOK)
	getResp.Body.Close()

	updateResp := client.PUT(t, patientPath, map[string]interface{}{
		"fields": map[string]interface{}{"city": "Saltillo"},
	})
	testutil.AssertStatusCode(t, updateResp, http.StatusOK)
	updateResp.Body.Close()

	searchResp := client.GET(t, "/patients/search?city=Saltillo")
	testutil.AssertStatusCode(t, searchResp, http.StatusOK)

	var search struct {
		Success  bool                     `json:"success"`
		Patients []map[string]interface{} `json:"patients"`
	}
	testutil.DecodeJSON(t, searchResp, &search)
	if len(search.Patients) != 1 {
		t.Errorf("Expected one search hit, got %d", len(search.Patients))
	}

	deleteResp := client.DELETE(t, patientPath)
	testutil.AssertStatusCode(t, deleteResp, http.StatusOK)
	deleteResp.Body.Close()
	ts.MockPublisher.AssertEventPublished(t, "patient.deleted")

	goneResp := client.GET(t, patientPath)
	testutil.AssertStatusCode(t, goneResp, http.StatusNotFound)
	goneResp.Body.Close()
}

// TestE2E_ConsultationCascade verifies consultations ride along with their
// patient, including the delete cascade.
func TestE2E_ConsultationCascade(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	client := ts.NewClient(ts.SessionToken(t))

	createResp := client.POST(t, "/patients", map[string]interface{}{
		"name":   "Luis Vega",
		"gender": "male",
	})
	testutil.AssertStatusCode(t, createResp, http.StatusCreated)

	var created struct {
		Patient struct {
			ID int64 `json:"id"`
		} `json:"patient"`
	}
	testutil.DecodeJSON(t, createResp, &created)

	consultResp := client.POST(t, fmt.Sprintf("/patients/%d/consultations", created.Patient.ID), map[string]interface{}{
		"procedure": "nerve block",
		"date":      "2021-03-04T10:30:00Z",
	})
	testutil.AssertStatusCode(t, consultResp, http.StatusCreated)

	var consult struct {
		Consultation struct {
			ID int64 `json:"id"`
		} `json:"consultation"`
	}
	testutil.DecodeJSON(t, consultResp, &consult)
	ts.MockPublisher.AssertEventPublished(t, "consultation.created")

	listResp := client.GET(t, fmt.Sprintf("/patients/%d/consultations", created.Patient.ID))
	testutil.AssertStatusCode(t, listResp, http.StatusOK)

	var list struct {
		Consultations []map[string]interface{} `json:"consultations"`
	}
	testutil.DecodeJSON(t, listResp, &list)
	if len(list.Consultations) != 1 {
		t.Errorf("Expected one consultation, got %d", len(list.Consultations))
	}

	deleteResp := client.DELETE(t, fmt.Sprintf("/patients/%d", created.Patient.ID))
	testutil.AssertStatusCode(t, deleteResp, http.StatusOK)
	deleteResp.Body.Close()

	goneResp := client.GET(t, fmt.Sprintf("/consultations/%d", consult.Consultation.ID))
	testutil.AssertStatusCode(t, goneResp, http.StatusNotFound)
	goneResp.Body.Close()
}

// TestE2E_RequiresSession verifies the protected surface rejects anonymous
// requests end to end.
func TestE2E_RequiresSession(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	client := ts.NewClient("")

	resp := client.GET(t, "/patients")
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}
