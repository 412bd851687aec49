package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrEmptyBaseURL is returned by New without a backend URL.
	ErrEmptyBaseURL = errors.New("client: base URL is empty")
	// ErrDecodeResponse wraps a response body that could not be decoded.
	ErrDecodeResponse = errors.New("client: cannot decode backend response")
)

// APIError is a non-2xx backend answer. It exposes the status code and the
// textual reasons found in the body so callers can classify it.
type APIError struct {
	Status     int
	Code       string
	Title      string
	Message    string
	DataReason string
	Detail     string
	Body       []byte
}

type errorBody struct {
	Code       string `json:"code"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	DataReason string `json:"dataReason"`
	Data       struct {
		Reason string `json:"reason"`
	} `json:"data"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: body}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		apiErr.Detail = strings.TrimSpace(string(body))

		return apiErr
	}

	apiErr.Code = parsed.Code
	apiErr.Title = parsed.Title
	apiErr.Message = parsed.Message
	apiErr.DataReason = parsed.DataReason
	if apiErr.DataReason == "" {
		apiErr.DataReason = parsed.Data.Reason
	}
	apiErr.Detail = parsed.Error

	return apiErr
}

func (e *APIError) Error() string {
	reason := e.DataReason
	for _, candidate := range []string{e.Message, e.Detail, e.Title} {
		if reason != "" {
			break
		}

		reason = candidate
	}

	if reason == "" {
		reason = http.StatusText(e.Status)
	}

	return fmt.Sprintf("client: backend returned %d: %s", e.Status, reason)
}

// StatusCode returns the HTTP status of the answer.
func (e *APIError) StatusCode() int {
	return e.Status
}

// Reasons returns every non-empty textual reason, most specific first.
func (e *APIError) Reasons() []string {
	reasons := make([]string, 0, 4)

	for _, r := range []string{e.DataReason, e.Message, e.Detail, e.Title} {
		if r != "" {
			reasons = append(reasons, r)
		}
	}

	return reasons
}

// IsClientError reports whether err is a 4xx backend answer.
func IsClientError(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}
