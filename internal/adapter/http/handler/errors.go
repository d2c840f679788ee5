package handler

import (
	"errors"
	"net/http"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	// Write the response using the writeJSON() helper. If this happens to return an
	// error then log it, and fall back to sending the client an empty response with a
	// 500 Internal Server Error status code.
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(500)
	}
}

// failedValidationResponse returns 422 UnprocessableEntity status.
// Clients that receive a 422 response should expect that repeating the request
// without modification will fail with the same error.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, errors)
}

// badRequestResponse returns 400 BadRequest status, used for malformed bodies and ids.
func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

// internalErrorResponse returns 500 InternalServerError status.
// Storage details are not leaked to the client.
func internalErrorResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

// serviceErrorResponse writes the status of a service error,
// validation errors carry their field map.
func serviceErrorResponse(w http.ResponseWriter, err error) {
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		failedValidationResponse(w, verr.Fields)
		return
	}

	code := GetCode(err)
	if code == http.StatusInternalServerError {
		internalErrorResponse(w)
		return
	}
	errorResponse(w, code, err.Error())
}
