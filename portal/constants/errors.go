package constant

import "errors"

// Business error codes surfaced to the SPA.
var (
	// ErrInvalidAmount maps to portal error code 0001.
	ErrInvalidAmount = errors.New("0001")
	// ErrDuplicateRequest maps to portal error code 0002.
	ErrDuplicateRequest = errors.New("0002")
	// ErrWizardBusy maps to portal error code 0003.
	ErrWizardBusy = errors.New("0003")
	// ErrInvalidWizardTransition maps to portal error code 0004.
	ErrInvalidWizardTransition = errors.New("0004")
	// ErrSessionNotFound maps to portal error code 0005.
	ErrSessionNotFound = errors.New("0005")
	// ErrBackendFailure maps to portal error code 0006.
	ErrBackendFailure = errors.New("0006")
)
