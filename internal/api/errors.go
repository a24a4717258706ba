package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StatusError is a non-2xx response from the backend. Detail carries the
// structured error the backend attached, if the body had one.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// AppError is an application-level decline: the backend understood the
// request but refused it, with a user-facing message (an upload response
// with success=false).
type AppError struct {
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// detailBody is the error shape FastAPI-style backends attach to non-2xx
// responses.
type detailBody struct {
	Detail string `json:"detail"`
}

// statusError builds a StatusError from a response body, extracting the
// structured detail when present.
func statusError(code int, body []byte) *StatusError {
	var d detailBody
	if err := json.Unmarshal(body, &d); err == nil && d.Detail != "" {
		return &StatusError{StatusCode: code, Detail: d.Detail}
	}
	return &StatusError{StatusCode: code}
}

// UserMessage maps an operation error to the string shown to the user: the
// backend's own message for application errors, the structured detail for
// declined requests, otherwise fallback (transport errors carry no text worth
// showing).
func UserMessage(err error, fallback string) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	var se *StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	return fallback
}
