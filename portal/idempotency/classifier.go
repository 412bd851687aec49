package idempotency

import (
	"errors"
	"net/http"
	"strings"
)

// DefaultConflictPhrases are the backend message fragments that signal an
// idempotency conflict. Matching is case-sensitive containment.
var DefaultConflictPhrases = []string{
	"idempotencyKey",
	"idempotency",
	"concurrent request",
	"already been successfully completed",
}

// StatusCoder is implemented by errors that carry a transport status code.
type StatusCoder interface {
	StatusCode() int
}

// ReasonCarrier is implemented by errors that carry backend-provided message
// fields (data reason, message, title, ...).
type ReasonCarrier interface {
	Reasons() []string
}

// Classification is the outcome of inspecting a failed commit.
type Classification struct {
	Duplicate bool
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithPhrases appends phrases to the conflict list.
func WithPhrases(phrases ...string) ClassifierOption {
	return func(c *Classifier) {
		c.phrases = append(c.phrases, nonEmpty(phrases)...)
	}
}

// WithOnlyPhrases replaces the conflict list.
func WithOnlyPhrases(phrases ...string) ClassifierOption {
	return func(c *Classifier) {
		c.phrases = nonEmpty(phrases)
	}
}

// WithConflictStatus overrides the status code treated as a duplicate. Zero
// disables status-based detection.
func WithConflictStatus(status int) ClassifierOption {
	return func(c *Classifier) {
		c.conflictStatus = status
	}
}

// Classifier decides whether a failed commit was rejected as a duplicate.
type Classifier struct {
	phrases        []string
	conflictStatus int
}

// NewClassifier builds a classifier with DefaultConflictPhrases and 409.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		phrases:        append([]string(nil), DefaultConflictPhrases...),
		conflictStatus: http.StatusConflict,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Phrases returns a copy of the configured conflict phrases.
func (c *Classifier) Phrases() []string {
	return append([]string(nil), c.phrases...)
}

// Classify reports Duplicate when err carries the conflict status or a reason
// containing a conflict phrase. Errors of any other shape are not duplicates.
func (c *Classifier) Classify(err error) Classification {
	if c == nil || err == nil {
		return Classification{}
	}

	var coder StatusCoder
	if c.conflictStatus != 0 && errors.As(err, &coder) && coder.StatusCode() == c.conflictStatus {
		return Classification{Duplicate: true}
	}

	var carrier ReasonCarrier
	if !errors.As(err, &carrier) {
		return Classification{}
	}

	for _, reason := range carrier.Reasons() {
		for _, phrase := range c.phrases {
			if strings.Contains(reason, phrase) {
				return Classification{Duplicate: true}
			}
		}
	}

	return Classification{}
}

var defaultClassifier = NewClassifier()

// ClassifyError classifies err with the default phrase list and status 409.
func ClassifyError(err error) Classification {
	return defaultClassifier.Classify(err)
}

func nonEmpty(phrases []string) []string {
	out := make([]string, 0, len(phrases))

	for _, p := range phrases {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
