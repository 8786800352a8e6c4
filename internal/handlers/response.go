package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxRequestBodyBytes bounds every JSON request body.
const MaxRequestBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Details []ValidationError `json:"details,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, errMsg, message string) {
	respondJSON(w, status, ErrorResponse{Error: errMsg, Message: message})
}

func respondInternalError(w http.ResponseWriter) {
	respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// decodeAndValidate writes a 400 (413 for an oversized body) and returns
// false when the body is not valid JSON or fails its validate tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "Request body too large", "Request body must not exceed 1 MiB")
			return false
		}
		respondError(w, http.StatusBadRequest, "Invalid request body", "Request body must be valid JSON")
		return false
	}
	if details := validateRequest(dst); details != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Message: "One or more fields are invalid",
			Details: details,
		})
		return false
	}
	return true
}

func validateRequest(obj any) []ValidationError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: "", Message: err.Error(), Type: "invalid"}}
	}

	validationErrors := make([]ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
			Type:    fe.Tag(),
		})
	}
	return validationErrors
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "max":
		return "Value is too long"
	case "min":
		return "Value is too short"
	default:
		return "Invalid value"
	}
}
