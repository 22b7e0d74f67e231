package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// VectorID identifies a vector in the vector index.
// Zero is reserved and never identifies a vector.
type VectorID uint64

// String returns the decimal form of the identifier.
func (id VectorID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseVectorID converts an identifier representation into an exact VectorID.
//
// Integers, integer strings and raw JSON literals are accepted. The value is
// never routed through a float, so the full uint64 range survives. Missing
// values, zero, negatives, decimals and anything non-numeric fail with
// ErrInvalidIdentifier.
func ParseVectorID(raw any) (VectorID, error) {
	switch v := raw.(type) {
	case nil:
		return 0, fmt.Errorf("%w: missing", ErrInvalidIdentifier)
	case VectorID:
		return nonZero(uint64(v), v.String())
	case uint64:
		return nonZero(v, strconv.FormatUint(v, 10))
	case uint32:
		return nonZero(uint64(v), strconv.FormatUint(uint64(v), 10))
	case uint:
		return nonZero(uint64(v), strconv.FormatUint(uint64(v), 10))
	case int64:
		return fromSigned(v)
	case int32:
		return fromSigned(int64(v))
	case int:
		return fromSigned(int64(v))
	case json.Number:
		return parseDigits(string(v))
	case json.RawMessage:
		return parseJSONLiteral(v)
	case string:
		return parseDigits(v)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidIdentifier, raw)
	}
}

// IsValidVectorID reports whether raw parses as a VectorID.
func IsValidVectorID(raw any) bool {
	_, err := ParseVectorID(raw)
	return err == nil
}

func fromSigned(v int64) (VectorID, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: negative value %d", ErrInvalidIdentifier, v)
	}
	return nonZero(uint64(v), strconv.FormatInt(v, 10))
}

func nonZero(v uint64, text string) (VectorID, error) {
	if v == 0 {
		return 0, fmt.Errorf("%w: zero is reserved (%q)", ErrInvalidIdentifier, text)
	}
	return VectorID(v), nil
}

// parseJSONLiteral handles a raw JSON value: a bare number or a quoted string.
func parseJSONLiteral(raw json.RawMessage) (VectorID, error) {
	text := strings.TrimSpace(string(raw))
	switch {
	case text == "" || text == "null":
		return 0, fmt.Errorf("%w: missing", ErrInvalidIdentifier)
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidIdentifier, err)
		}
		return parseDigits(s)
	default:
		return parseDigits(text)
	}
}

// parseDigits accepts an optional leading '+' followed by ASCII digits only.
func parseDigits(s string) (VectorID, error) {
	text := strings.TrimSpace(s)
	digits := strings.TrimPrefix(text, "+")
	if digits == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q is not an unsigned integer", ErrInvalidIdentifier, s)
		}
	}
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidIdentifier, s)
	}
	return nonZero(v, text)
}

// NormalizeText lowercases s, collapses whitespace runs to a single space
// and trims both ends.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
