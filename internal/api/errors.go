package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched by RemoteError values carrying a 404 status, so
// callers can use errors.Is without inspecting status codes themselves.
var ErrNotFound = errors.New("resource not found")

// RemoteError means the server was reached and answered with an error status.
// Message carries the server-provided text when the body had one.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// NetworkError means no response was received at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "no response from server: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// remoteMessage pulls a human-readable message out of an error body.
// The server is inconsistent about the field name it uses.
func remoteMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
