package wizard

import (
	"context"
	"strings"
	"sync"

	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/amount"
	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/idempotency"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/notify"
)

// Option configures a Session.
type Option func(*Session)

// WithClassifier replaces the default duplicate classifier.
func WithClassifier(c Classifier) Option {
	return func(s *Session) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithNotifier sets the toast surface. Defaults to notify.Discard.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l log.Logger) Option {
	return func(s *Session) {
		s.logger = log.OrNop(l)
	}
}

// Session is the state of one open wizard (one drawer instance).
type Session struct {
	flow       Flow
	backend    Backend
	keys       KeyManager
	classifier Classifier
	notifier   notify.Notifier
	logger     log.Logger

	mu         sync.Mutex
	state      State
	busy       bool
	closed     bool
	generation uint64
}

// NewSession opens a session for flow. Opening owns the key reset: keys is
// reset here exactly once, and again by each later Open. keys may outlive the
// session, so a fresh manager and a reused one are treated the same.
func NewSession(flow Flow, backend Backend, keys KeyManager, opts ...Option) (*Session, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}

	if keys == nil {
		return nil, ErrNilKeyManager
	}

	s := &Session{
		flow:       flow,
		backend:    backend,
		keys:       keys,
		classifier: idempotency.NewClassifier(),
		notifier:   notify.Discard,
		logger:     log.NewNop(),
		state:      Input{},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With(log.Flow(flow))
	s.keys.Reset()

	return s, nil
}

// Flow returns the flow this session drives.
func (s *Session) Flow() Flow {
	return s.flow
}

// State returns the current state.
//
//nolint:ireturn
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Busy reports whether a backend call is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.busy
}

// Closed reports whether Close was called since the last Open.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Snapshot returns a serializable copy of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshotOf(s.flow, s.state, s.busy, s.closed)
}

// Open starts the flow fresh: state back to an empty Input and a new key on
// the next commit. Any in-flight response is discarded.
func (s *Session) Open() {
	s.mu.Lock()
	s.resetLocked()
	s.closed = false
	s.mu.Unlock()

	s.keys.Reset()
}

// Close clears the session and resets the key exactly once. Any in-flight
// response is discarded when it arrives.
func (s *Session) Close() {
	s.mu.Lock()
	s.resetLocked()
	s.closed = true
	s.mu.Unlock()

	s.keys.Reset()
	s.logger.Log(context.Background(), log.LevelDebug, "wizard closed")
}

func (s *Session) resetLocked() {
	s.generation++
	s.state = Input{}
	s.busy = false
}

// SetAmount records the raw user input. Validation happens on Continue.
func (s *Session) SetAmount(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardLocked(); err != nil {
		return err
	}

	if _, ok := s.state.(Input); !ok {
		return ErrInvalidTransition
	}

	s.state = Input{Amount: raw}

	return nil
}

// Continue validates the amount and requests a quote. On success the session
// moves to Preview; on failure it stays at Input.
func (s *Session) Continue(ctx context.Context) error {
	s.mu.Lock()

	if err := s.guardLocked(); err != nil {
		s.mu.Unlock()
		return err
	}

	in, ok := s.state.(Input)
	if !ok {
		s.mu.Unlock()
		return ErrInvalidTransition
	}

	value, err := amount.Parse(in.Amount)
	if err != nil {
		s.mu.Unlock()
		s.notify(ctx, notify.LevelError, constant.MessageInvalidAmount)

		return &ValidationError{Raw: in.Amount, Err: err}
	}

	s.busy = true
	generation := s.generation
	s.mu.Unlock()

	s.logger.Log(ctx, log.LevelDebug, "requesting quote", log.String("amount", amount.Wire(value)))

	quote, err := s.backend.Quote(ctx, value)

	s.mu.Lock()

	if generation != s.generation {
		s.mu.Unlock()
		s.logger.Log(ctx, log.LevelDebug, "discarding late quote response")

		return ErrDiscarded
	}

	s.busy = false

	if err != nil {
		s.mu.Unlock()
		s.logger.Log(ctx, log.LevelWarn, "quote failed", log.Err(err))
		s.notify(ctx, notify.LevelError, constant.MessageQuoteFailed)

		return &QuoteError{Err: err}
	}

	s.state = Preview{Amount: value, RawAmount: strings.TrimSpace(in.Amount), Quote: quote}
	s.mu.Unlock()

	return nil
}

// OpenConfirmation opens the disclaimer dialog on the Preview step.
func (s *Session) OpenConfirmation() error {
	return s.setConfirmOpen(true)
}

// CancelConfirmation dismisses the disclaimer dialog, staying on Preview.
func (s *Session) CancelConfirmation() error {
	return s.setConfirmOpen(false)
}

func (s *Session) setConfirmOpen(open bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardLocked(); err != nil {
		return err
	}

	preview, ok := s.state.(Preview)
	if !ok {
		return ErrInvalidTransition
	}

	preview.ConfirmOpen = open
	s.state = preview

	return nil
}

// Confirm commits the previewed amount with the session's idempotency key.
//
// On success the session moves to Result and the key is reset. On failure the
// session stays in the confirming sub-state with the same key; a duplicate
// rejection is reported as *CommitDuplicateError, anything else as
// *CommitError. Confirm never retries by itself.
func (s *Session) Confirm(ctx context.Context) error {
	s.mu.Lock()

	if err := s.guardLocked(); err != nil {
		s.mu.Unlock()
		return err
	}

	preview, ok := s.state.(Preview)
	if !ok || !preview.ConfirmOpen {
		s.mu.Unlock()
		return ErrInvalidTransition
	}

	if !preview.Amount.IsPositive() {
		s.mu.Unlock()
		s.notify(ctx, notify.LevelError, constant.MessageInvalidAmount)

		return &ValidationError{Raw: preview.RawAmount, Err: amount.ErrInvalidAmount}
	}

	key := s.keys.Key()
	s.busy = true
	generation := s.generation
	s.mu.Unlock()

	s.logger.Log(ctx, log.LevelInfo, "committing", log.IdempotencyKey(key))

	outcome, err := s.backend.Commit(ctx, preview.Amount, key)

	s.mu.Lock()

	if generation != s.generation {
		s.mu.Unlock()
		s.logger.Log(ctx, log.LevelDebug, "discarding late commit response", log.IdempotencyKey(key))

		return ErrDiscarded
	}

	s.busy = false

	if err != nil {
		s.mu.Unlock()

		if s.classifier.Classify(err).Duplicate {
			s.logger.Log(ctx, log.LevelWarn, "commit rejected as duplicate", log.IdempotencyKey(key))
			s.notify(ctx, notify.LevelError, constant.MessageCommitDuplicate)

			return &CommitDuplicateError{Key: key, Err: err}
		}

		s.logger.Log(ctx, log.LevelWarn, "commit failed", log.IdempotencyKey(key), log.Err(err))
		s.notify(ctx, notify.LevelError, constant.MessageCommitFailed)

		return &CommitError{Key: key, Err: err}
	}

	s.state = Result{Amount: preview.Amount, Outcome: outcome}
	s.keys.Reset()
	s.mu.Unlock()

	s.logger.Log(ctx, log.LevelInfo, "commit accepted", log.IdempotencyKey(key), log.String("commit_status", outcome.Status))
	s.notify(ctx, notify.LevelSuccess, s.successMessage())

	return nil
}

func (s *Session) guardLocked() error {
	if s.closed {
		return ErrClosed
	}

	if s.busy {
		return ErrBusy
	}

	return nil
}

func (s *Session) successMessage() string {
	switch s.flow {
	case constant.FlowDraw:
		return constant.MessageDrawCreated
	case constant.FlowPrepayment:
		return constant.MessagePrepaymentCreated
	default:
		return constant.MessageDrawCreated
	}
}

func (s *Session) notify(ctx context.Context, level notify.Level, key string) {
	s.notifier.Notify(ctx, notify.Notification{Level: level, Key: key})
}
