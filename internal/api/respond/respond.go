// Package respond serializes the API's uniform response envelope. Success and
// error bodies share one shape so clients parse a single structure.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anish/devshowcase/internal/domain"
)

type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func JSON(w http.ResponseWriter, status int, data any, message string) {
	write(w, status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// Error maps any error to the error envelope. Errors that are not APIErrors
// become an opaque 500.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
		message = apiErr.Message
	}

	write(w, status, Envelope{
		StatusCode: status,
		Message:    message,
		Success:    false,
	})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}
