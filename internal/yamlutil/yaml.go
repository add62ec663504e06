// Package yamlutil decodes readmeforge configuration documents.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxDocumentSize bounds a configuration document.
const MaxDocumentSize = 256 << 10

var (
	ErrEmptyDocument    = errors.New("yaml: empty document")
	ErrNilDestination   = errors.New("yaml: nil destination")
	ErrDocumentTooLarge = errors.New("yaml: document too large")
)

// DecodeStrict decodes data into v and rejects keys v does not declare.
// Decoder errors carry the [line:column] position of the offending token.
func DecodeStrict(data []byte, v any) error {
	if v == nil {
		return ErrNilDestination
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyDocument
	}
	if len(data) > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrDocumentTooLarge, len(data), MaxDocumentSize)
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return errors.New(yaml.FormatError(err, false, false))
	}
	return nil
}
