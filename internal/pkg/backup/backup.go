// Package backup encodes and decodes token archive files.
//
// The wire shape is fixed so archives remain portable across versions:
//
//	{"tokens":[{"service":"github","secret":"JBSWY3DPEHPK3PXP"}]}
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed is returned when a backup payload does not match the
// expected shape.
var ErrMalformed = errors.New("malformed backup")

// Entry is a single service token in an archive.
type Entry struct {
	Service string `json:"service"`
	Secret  string `json:"secret"`
}

// Archive is the top-level backup document.
type Archive struct {
	Tokens []Entry `json:"tokens"`
}

// Encode serializes entries into the archive wire format. A nil slice
// encodes as an empty tokens array, never null.
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}

	return json.Marshal(Archive{Tokens: entries})
}

// Pointer fields distinguish absent keys from empty values during strict
// decoding.
type rawEntry struct {
	Service *string `json:"service"`
	Secret  *string `json:"secret"`
}

type rawArchive struct {
	Tokens *[]rawEntry `json:"tokens"`
}

// Decode parses an archive payload, rejecting anything that deviates from
// the documented shape: unknown keys, missing keys, wrong value types, or
// trailing content. All failures wrap ErrMalformed.
func Decode(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var raw rawArchive
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing content after document", ErrMalformed)
	}

	if raw.Tokens == nil {
		return nil, fmt.Errorf("%w: missing tokens array", ErrMalformed)
	}

	entries := make([]Entry, 0, len(*raw.Tokens))
	for i, e := range *raw.Tokens {
		if e.Service == nil {
			return nil, fmt.Errorf("%w: entry %d missing service", ErrMalformed, i)
		}
		if e.Secret == nil {
			return nil, fmt.Errorf("%w: entry %d missing secret", ErrMalformed, i)
		}

		entries = append(entries, Entry{Service: *e.Service, Secret: *e.Secret})
	}

	return entries, nil
}
