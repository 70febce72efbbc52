// ABOUTME: Uniform response envelope for the HTTP surface.
// ABOUTME: A response is either a success payload or an error detail, never both.
package api

import (
	"encoding/json"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope written by every API route. On the wire it is
// {"response": string|null, "status": string, "data": any}.
type Response struct {
	message string
	payload any
	fault   string
	failed  bool
}

// Success wraps a payload. payload may be nil, e.g. for an absent row.
func Success(message string, payload any) Response {
	return Response{message: message, payload: payload}
}

// Failure wraps a fault. The error text becomes the data field.
func Failure(err error) Response {
	msg := "internal error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Response{fault: msg, failed: true}
}

// IsError reports whether r carries an error detail.
func (r Response) IsError() bool {
	return r.failed
}

// Status is "success" or "error".
func (r Response) Status() string {
	if r.failed {
		return StatusError
	}
	return StatusSuccess
}

type wireResponse struct {
	Response *string `json:"response"`
	Status   string  `json:"status"`
	Data     any     `json:"data"`
}

// MarshalJSON renders the wire form. Errors always have a null response.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.failed {
		return json.Marshal(wireResponse{Status: StatusError, Data: r.fault})
	}
	msg := r.message
	return json.Marshal(wireResponse{Response: &msg, Status: StatusSuccess, Data: r.payload})
}
