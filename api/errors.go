package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for any 401 response. Callers clear the
// session and return the user to the landing screen when they see it.
var ErrUnauthorized = errors.New("not authenticated")

// APIError is a non-401 error response from the backend. Detail is the
// backend's message and is shown to the user verbatim.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}
