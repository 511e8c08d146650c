package search

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingIdentifier marks a descriptor without a PackageIdentifier.
	ErrMissingIdentifier = errors.New("descriptor has no PackageIdentifier")
	// ErrInvalidUTF8 marks a descriptor whose bytes are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("descriptor is not valid UTF-8")
	// ErrDuplicateIdentifier marks a descriptor whose identifier was already extracted.
	ErrDuplicateIdentifier = errors.New("duplicate PackageIdentifier")
)

// ParseDescriptor decodes a locale manifest and returns its record.
func ParseDescriptor(raw []byte) (PackageRecord, error) {
	text, err := decodeText(raw)
	if err != nil {
		return PackageRecord{}, err
	}

	var rec PackageRecord
	if err := yaml.Unmarshal(text, &rec); err != nil {
		return PackageRecord{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if rec.Identifier == "" {
		return PackageRecord{}, ErrMissingIdentifier
	}
	return rec, nil
}

// decodeText returns raw as UTF-8 without a byte-order mark. A UTF-16 BOM
// switches the decoding; otherwise the input must already be valid UTF-8.
func decodeText(raw []byte) ([]byte, error) {
	utf16 := bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) || bytes.HasPrefix(raw, []byte{0xFF, 0xFE})
	if !utf16 && !utf8.Valid(raw) {
		return nil, ErrInvalidUTF8
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, fmt.Errorf("cannot decode descriptor: %w", err)
	}
	return out, nil
}
