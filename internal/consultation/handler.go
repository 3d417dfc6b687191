package consultation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

type ConsultationSuccessResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	Consultation *Consultation `json:"consultation,omitempty"`
}

func (h *Handler) CreateConsultation(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req CreateConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	// A consultation with neither a procedure nor medications is not
	// clinically meaningful; rejected here rather than by the store.
	if req.Procedure == "" && req.Meds == "" {
		respondError(w, http.StatusBadRequest, "validation_error", ErrEmptyRecord.Error())
		return
	}

	c, err := h.service.CreateConsultation(r.Context(), patientID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrMissingPatient) {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "creation_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ConsultationSuccessResponse{
		Success:      true,
		Message:      "Consultation created successfully",
		Consultation: c,
	})
}

func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	consultations, err := h.service.ListByPatient(r.Context(), patientID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}
	if consultations == nil {
		consultations = []Consultation{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ConsultationListResponse{
		Success:       true,
		Consultations: consultations,
		Total:         len(consultations),
	})
}

func (h *Handler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.service.GetConsultation(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrConsultationNotFound) {
			respondError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ConsultationSuccessResponse{
		Success:      true,
		Message:      "Consultation retrieved successfully",
		Consultation: c,
	})
}

func (h *Handler) UpdateConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	c, err := h.service.UpdateConsultation(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrConsultationNotFound):
			respondError(w, http.StatusNotFound, "not_found", err.Error())
		case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrNoFieldsToUpdate):
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "update_failed", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ConsultationSuccessResponse{
		Success:      true,
		Message:      "Consultation updated successfully",
		Consultation: c,
	})
}

func (h *Handler) DeleteConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteConsultation(r.Context(), id); err != nil {
		if errors.Is(err, ErrConsultationNotFound) {
			respondError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "deletion_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Consultation deleted successfully",
	})
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	idStr := mux.Vars(r)[name]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "validation_error", "ID must be a positive integer")
		return 0, false
	}
	return id, true
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   errorType,
		"message": message,
	})
}
