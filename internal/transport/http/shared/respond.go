// Package shared holds the JSON response helpers every handler uses, keeping
// domain-error translation to HTTP in one place.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "donationdesk/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes the {"success": true} envelope API writes respond with.
func WriteSuccess(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// WriteError translates a domain error into the {"error": "..."} envelope.
// Internal causes are hidden behind a generic message; validation and
// not-found messages pass through verbatim.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "something went wrong, please try again"

	var de *dErrors.Error
	if errors.As(err, &de) {
		status = dErrors.ToHTTPStatus(de.Code)
		if de.Code != dErrors.CodeInternal {
			message = de.Message
		}
	}
	WriteJSON(w, status, map[string]string{"error": message})
}
