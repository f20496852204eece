package resource

import "net/http"

// Response is the result of a handler action: an HTTP-equivalent status code
// and a payload. The invocation pipeline normalizes it into a tool result;
// handlers never write to a network connection themselves.
type Response struct {
	StatusCode int
	Data       any
}

// NewResponse builds a response with the given status and payload.
func NewResponse(status int, data any) *Response {
	return &Response{StatusCode: status, Data: data}
}

// OK is a 200 response carrying data.
func OK(data any) *Response { return NewResponse(http.StatusOK, data) }

// Created is a 201 response carrying the created representation.
func Created(data any) *Response { return NewResponse(http.StatusCreated, data) }

// NoContent is a 204 response with no payload (e.g. after a destroy).
func NoContent() *Response { return NewResponse(http.StatusNoContent, nil) }

// NotFound is a 404 response carrying an error payload.
func NotFound(detail string) *Response {
	return NewResponse(http.StatusNotFound, map[string]any{"detail": detail})
}

// BadRequest is a 400 response carrying a validation error payload.
// The payload should name the offending field(s).
func BadRequest(errors any) *Response {
	return NewResponse(http.StatusBadRequest, errors)
}

// IsError reports whether the response carries a client or server error.
func (r *Response) IsError() bool { return r.StatusCode >= 400 }
