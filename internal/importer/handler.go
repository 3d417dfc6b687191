package importer

import (
	"encoding/json"
	"net/http"
)

// maxUploadBytes caps the in-memory portion of a multipart import upload.
const maxUploadBytes = 32 << 20

type Handler struct {
	reconciler *Reconciler
}

func NewHandler(reconciler *Reconciler) *Handler {
	return &Handler{reconciler: reconciler}
}

// ImportCSV accepts CSV files as multipart form uploads, under any field
// name, and runs the reconciler over them. The response is the run summary;
// row-level problems appear in its errors list rather than failing the
// request.
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid multipart payload: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	var files []NamedReader
	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				respondError(w, http.StatusInternalServerError, "upload_failed", "Failed to open uploaded file: "+err.Error())
				return
			}
			defer f.Close()
			files = append(files, NamedReader{Name: fh.Filename, Reader: f})
		}
	}

	if len(files) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":   false,
			"cancelled": true,
			"message":   "No files selected",
		})
		return
	}

	summary := h.reconciler.RunFiles(r.Context(), files)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   errorType,
		"message": message,
	})
}
