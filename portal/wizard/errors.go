package wizard

import (
	"errors"
	"fmt"

	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
)

var (
	// ErrBusy is returned when Continue or Confirm is triggered while a call is in flight.
	ErrBusy = fmt.Errorf("wizard: a request is already in flight: %w", constant.ErrWizardBusy)
	// ErrInvalidTransition is returned when an action does not apply to the current step.
	ErrInvalidTransition = fmt.Errorf("wizard: action not allowed at current step: %w", constant.ErrInvalidWizardTransition)
	// ErrClosed is returned for actions on a closed session.
	ErrClosed = fmt.Errorf("wizard: session is closed: %w", constant.ErrSessionNotFound)
	// ErrDiscarded is returned to the caller whose response arrived after the
	// session was closed or reopened.
	ErrDiscarded = errors.New("wizard: response discarded, session was reset")
	// ErrNilBackend is returned by NewSession without a backend.
	ErrNilBackend = errors.New("wizard: backend is nil")
	// ErrNilKeyManager is returned by NewSession without a key manager.
	ErrNilKeyManager = errors.New("wizard: key manager is nil")
)

// ValidationError is a local amount rejection; no network call was made.
type ValidationError struct {
	Raw string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("wizard: invalid amount %q: %v", e.Raw, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{e.Err, constant.ErrInvalidAmount}
}

// QuoteError wraps a failed quote call. The session stays at Input.
type QuoteError struct {
	Err error
}

func (e *QuoteError) Error() string {
	return fmt.Sprintf("wizard: quote failed: %v", e.Err)
}

func (e *QuoteError) Unwrap() []error {
	return []error{e.Err, constant.ErrBackendFailure}
}

// CommitDuplicateError is a commit rejected as a duplicate. The key is kept so
// a later retry still deduplicates.
type CommitDuplicateError struct {
	Key string
	Err error
}

func (e *CommitDuplicateError) Error() string {
	return fmt.Sprintf("wizard: duplicate commit for key %s: %v", e.Key, e.Err)
}

func (e *CommitDuplicateError) Unwrap() []error {
	return []error{e.Err, constant.ErrDuplicateRequest}
}

// CommitError is any other commit failure. Confirming again reuses Key.
type CommitError struct {
	Key string
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("wizard: commit failed for key %s: %v", e.Key, e.Err)
}

func (e *CommitError) Unwrap() []error {
	return []error{e.Err, constant.ErrBackendFailure}
}
