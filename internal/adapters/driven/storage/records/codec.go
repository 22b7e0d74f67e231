// Package records holds the JSON object codec shared by record store adapters.
//
// Objects are decoded member by member so that key order and raw values
// survive a read-write cycle unchanged.
package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// DecodeArray decodes a JSON array of objects into records.
// A top-level value other than an array, null included, is rejected.
func DecodeArray(data []byte) ([]domain.Record, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return nil, fmt.Errorf("%w: expected a JSON array of record objects", domain.ErrInvalidInput)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: expected a JSON array of record objects", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	out := make([]domain.Record, 0, len(items))
	for i, item := range items {
		fields, err := DecodeObject(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, domain.NewRecord(i, fields))
	}
	return out, nil
}

// DecodeObject decodes one JSON object into its members, in order.
func DecodeObject(data []byte) ([]domain.Field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: record is not a JSON object", domain.ErrInvalidInput)
	}

	var fields []domain.Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", domain.ErrInvalidInput, tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: member %q: %w", domain.ErrInvalidInput, key, err)
		}
		fields = append(fields, domain.Field{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after record object", domain.ErrInvalidInput)
	}
	return fields, nil
}

// EncodeArray encodes records as an indented JSON array.
// HTML characters are not escaped so text round-trips byte for byte.
func EncodeArray(records []domain.Record) ([]byte, error) {
	if records == nil {
		records = []domain.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeObject encodes one record as compact JSON.
func EncodeObject(r domain.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
