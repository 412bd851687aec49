package portal

import (
	"errors"

	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
)

// Response represents a business error with code, title, and message.
type Response struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"-"`
}

func (e Response) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e Response) Unwrap() error {
	return e.Err
}

// ValidateBusinessError maps a portal sentinel code to its Response.
// Errors without a mapping are returned unchanged.
//
// The sentinel is matched with errors.Is, so wrapped codes resolve too.
func ValidateBusinessError(err error, entityType string) error {
	errorMap := []struct {
		code     error
		response Response
	}{
		{
			code: constant.ErrInvalidAmount,
			response: Response{
				Title:   "Invalid Amount",
				Message: "Please enter a valid amount",
			},
		},
		{
			code: constant.ErrDuplicateRequest,
			response: Response{
				Title:   "Duplicate Request",
				Message: "This request is already being processed. Please try again later.",
			},
		},
		{
			code: constant.ErrWizardBusy,
			response: Response{
				Title:   "Request In Progress",
				Message: "A request for this session is still in progress.",
			},
		},
		{
			code: constant.ErrInvalidWizardTransition,
			response: Response{
				Title:   "Invalid Step",
				Message: "This action is not available at the current step.",
			},
		},
		{
			code: constant.ErrSessionNotFound,
			response: Response{
				Title:   "Session Not Found",
				Message: "The session does not exist or has been closed.",
			},
		},
		{
			code: constant.ErrBackendFailure,
			response: Response{
				Title:   "Request Failed",
				Message: "The request could not be completed. Please try again.",
			},
		},
	}

	for _, entry := range errorMap {
		if errors.Is(err, entry.code) {
			mapped := entry.response
			mapped.EntityType = entityType
			mapped.Code = entry.code.Error()
			mapped.Err = err

			return mapped
		}
	}

	return err
}
