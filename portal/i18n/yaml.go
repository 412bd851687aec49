package i18n

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ErrEmptyMessages is returned by LoadYAML for a document without messages.
var ErrEmptyMessages = errors.New("i18n: messages document is empty")

// LoadYAML adds the translations of a document keyed by language tag, then
// message key:
//
//	en:
//	  wizard.amount.invalid: Please enter a valid amount
//	pt-BR:
//	  wizard.amount.invalid: Informe um valor válido
//
// Existing keys are overwritten.
func (c *Catalog) LoadYAML(r io.Reader) error {
	var doc map[string]map[string]string

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyMessages
		}

		return fmt.Errorf("i18n: decode messages: %w", err)
	}

	if len(doc) == 0 {
		return ErrEmptyMessages
	}

	for rawTag, messages := range doc {
		tag, err := language.Parse(rawTag)
		if err != nil {
			return fmt.Errorf("i18n: language %q: %w", rawTag, err)
		}

		if err := c.SetAll(tag, messages); err != nil {
			return err
		}
	}

	return nil
}
