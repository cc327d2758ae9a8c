package utils

import (
	"encoding/json"
	"net/http"
)

// ActionResponse is the structured result every mutating endpoint returns:
// a status, a user-facing message, and per-field validation errors when
// validation failed.
type ActionResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func RespondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func RespondSuccess(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusOK, ActionResponse{Status: "success", Message: message})
}

func RespondError(w http.ResponseWriter, code int, message string) {
	RespondJSON(w, code, ActionResponse{Status: "error", Message: message})
}

func RespondValidation(w http.ResponseWriter, errors map[string][]string) {
	RespondJSON(w, http.StatusBadRequest, ActionResponse{
		Status:  "error",
		Message: "Validation failed. Please check the form.",
		Errors:  errors,
	})
}
