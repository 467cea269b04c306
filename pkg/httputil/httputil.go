// Package httputil implements the JSON response envelope shared by every
// endpoint: {success, data?, error?, meta?}. Keeping the writers in one place
// is what guarantees the envelope stays bit-compatible across handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mandatemap/pkg/apierrors"
)

// Meta carries response metadata. Timestamp is always set by the writers;
// pagination fields are only present on list responses.
type Meta struct {
	Timestamp string `json:"timestamp"`
	Total     *int   `json:"total,omitempty"`
	Page      *int   `json:"page,omitempty"`
	Limit     *int   `json:"limit,omitempty"`
}

// ErrorBody is the wire form of a failed request.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Envelope is the fixed response shape.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// PageMeta builds a Meta with pagination fields populated.
func PageMeta(total, page, limit int) *Meta {
	return &Meta{Total: &total, Page: &page, Limit: &limit}
}

// WriteData writes a 200 success envelope.
func WriteData(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// WriteDataMeta writes a 200 success envelope with the supplied meta.
func WriteDataMeta(w http.ResponseWriter, data any, meta *Meta) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data, Meta: meta})
}

// WriteCreated writes a 201 success envelope.
func WriteCreated(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// WriteError translates err into the envelope. Internal error messages are
// replaced with a generic message so implementation details never leak.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *apierrors.Error
	if !errors.As(err, &apiErr) {
		apiErr = apierrors.New(apierrors.CodeInternal, "internal server error")
	}
	status := apierrors.ToHTTPStatus(apiErr.Code)
	body := &ErrorBody{
		Code:    string(apiErr.Code),
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
	if status == http.StatusInternalServerError {
		body.Message = "internal server error"
		body.Details = nil
	}
	write(w, status, Envelope{Success: false, Error: body})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	if env.Meta == nil {
		env.Meta = &Meta{}
	}
	if env.Meta.Timestamp == "" {
		env.Meta.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
