// Package i18n resolves message keys to display text for the negotiated locale.
//
// Only user-facing notifications go through a Localizer; no state-machine
// decision ever depends on the resolved text.
package i18n

import (
	"fmt"
	"sync"

	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Localizer maps a message key to display text.
type Localizer interface {
	Localize(key string, args ...any) string
	Language() language.Tag
}

// Catalog holds translations and negotiates a locale from Accept-Language.
type Catalog struct {
	builder *catalog.Builder

	mu        sync.RWMutex
	supported []language.Tag
	matcher   language.Matcher
}

// NewCatalog creates an empty catalog whose fallback locale is fallback.
func NewCatalog(fallback language.Tag) *Catalog {
	c := &Catalog{
		builder:   catalog.NewBuilder(catalog.Fallback(fallback)),
		supported: []language.Tag{fallback},
	}
	c.matcher = language.NewMatcher(c.supported)

	return c
}

// Set registers msg for key in tag.
func (c *Catalog) Set(tag language.Tag, key, msg string) error {
	if err := c.builder.SetString(tag, key, msg); err != nil {
		return fmt.Errorf("i18n: set %s/%s: %w", tag, key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.supported {
		if t == tag {
			return nil
		}
	}

	c.supported = append(c.supported, tag)
	c.matcher = language.NewMatcher(c.supported)

	return nil
}

// SetAll registers every key/message pair of messages in tag.
func (c *Catalog) SetAll(tag language.Tag, messages map[string]string) error {
	for key, msg := range messages {
		if err := c.Set(tag, key, msg); err != nil {
			return err
		}
	}

	return nil
}

// For returns a Localizer for the best supported match of an Accept-Language
// header value. Unparseable or unsupported values select the fallback locale.
//
//nolint:ireturn
func (c *Catalog) For(acceptLanguage string) Localizer {
	c.mu.RLock()
	supported := c.supported
	matcher := c.matcher
	c.mu.RUnlock()

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		tags = nil
	}

	_, index, _ := matcher.Match(tags...)
	tag := supported[index]

	return &printerLocalizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(c.builder)),
	}
}

// Tag returns a Localizer pinned to tag.
//
//nolint:ireturn
func (c *Catalog) Tag(tag language.Tag) Localizer {
	return &printerLocalizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(c.builder)),
	}
}

type printerLocalizer struct {
	tag     language.Tag
	printer *message.Printer
}

func (l *printerLocalizer) Localize(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

func (l *printerLocalizer) Language() language.Tag {
	return l.tag
}

// DefaultCatalog returns the catalog with the wizard's built-in messages in
// English (fallback) and Spanish.
func DefaultCatalog() *Catalog {
	c := NewCatalog(language.English)

	// Both maps contain only static strings, so Set cannot fail.
	_ = c.SetAll(language.English, map[string]string{
		constant.MessageInvalidAmount:      "Please enter a valid amount",
		constant.MessageQuoteFailed:        "We could not calculate a preview. Please try again.",
		constant.MessageCommitDuplicate:    "Duplicate request, please try again later",
		constant.MessageCommitFailed:       "Something went wrong. Please try again.",
		constant.MessageDrawCreated:        "Your draw request was submitted",
		constant.MessagePrepaymentCreated:  "Your prepayment was submitted",
		constant.MessageServiceUnavailable: "The service is temporarily unavailable",
	})
	_ = c.SetAll(language.Spanish, map[string]string{
		constant.MessageInvalidAmount:      "Introduce un importe válido",
		constant.MessageQuoteFailed:        "No pudimos calcular la vista previa. Inténtalo de nuevo.",
		constant.MessageCommitDuplicate:    "Solicitud duplicada, inténtalo más tarde",
		constant.MessageCommitFailed:       "Algo salió mal. Inténtalo de nuevo.",
		constant.MessageDrawCreated:        "Tu solicitud de disposición fue enviada",
		constant.MessagePrepaymentCreated:  "Tu prepago fue enviado",
		constant.MessageServiceUnavailable: "El servicio no está disponible temporalmente",
	})

	return c
}
