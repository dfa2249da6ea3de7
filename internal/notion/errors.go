package notion

import (
	"fmt"
	"net/http"
	"time"

	"timemachine/internal/services"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status     int           `json:"status"`
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	RequestID  string        `json:"request_id,omitempty"`
	RetryAfter time.Duration `json:"-"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("notion api %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("notion api %d: %s", e.Status, msg)
}

// Unwrap classifies the response against the services markers.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusTooManyRequests:
		return services.ErrRateLimited
	case e.Status == http.StatusRequestTimeout || e.Status == http.StatusGatewayTimeout:
		return services.ErrTimeout
	case e.Status >= 500:
		return services.ErrTransient
	case e.Status == http.StatusNotFound:
		return services.ErrNotFound
	case e.Status == http.StatusBadRequest && e.Code == "validation_error":
		return services.ErrValidation
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return services.ErrConfiguration
	default:
		return services.ErrExternal
	}
}
