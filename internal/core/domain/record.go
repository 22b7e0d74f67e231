package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record field keys understood by the reconciler.
// Every other key is carried through untouched.
const (
	FieldText       = "original"
	FieldSubject    = "subject"
	FieldConfidence = "confidence"
	FieldTimestamp  = "timestamp"
	FieldDecided    = "decided"
	FieldVectorID   = "vector_id"
)

// Field is one raw member of a stored record object, in its original order.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Record is one piece of stored knowledge read from the record store.
// Records are never modified after they are read; pipeline stages build
// new slices that share the same Record values.
type Record struct {
	// Position is the zero-based index of the record in the store as read.
	Position int

	// Text is the original free text the vector was embedded from.
	Text string

	// Subject groups records for capping. Empty is a valid group.
	Subject string

	// Confidence defaults to 0 when absent or unparseable.
	Confidence float64

	// Timestamp is in epoch seconds, 0 when absent or unparseable.
	Timestamp int64

	// Decided marks records confirmed by a user or agent.
	Decided bool

	// VectorID is the linked vector, 0 when the stored value is invalid.
	VectorID VectorID

	// Fields holds every member exactly as read, typed ones included.
	Fields []Field

	idErr error
}

// NewRecord builds a Record from its raw members, deriving the typed attributes.
func NewRecord(position int, fields []Field) Record {
	r := Record{
		Position: position,
		Fields:   fields,
	}

	r.Text = rawString(r.lookup(FieldText))
	r.Subject = rawString(r.lookup(FieldSubject))
	r.Confidence = rawFloat(r.lookup(FieldConfidence))
	r.Timestamp = rawInt(r.lookup(FieldTimestamp))
	r.Decided = rawBool(r.lookup(FieldDecided))

	raw, _ := r.lookup(FieldVectorID)
	r.VectorID, r.idErr = ParseVectorID(raw)
	return r
}

// HasValidID reports whether the record carries a usable vector identifier.
func (r Record) HasValidID() bool {
	return r.idErr == nil && r.VectorID != 0
}

// IDError returns why the vector identifier was rejected, or nil.
func (r Record) IDError() error {
	return r.idErr
}

// NormalizedKey returns the duplicate-grouping key of the record text.
func (r Record) NormalizedKey() string {
	return NormalizeText(r.Text)
}

// Raw returns the raw JSON value of a member.
func (r Record) Raw(key string) (json.RawMessage, bool) {
	return r.lookup(key)
}

// MarshalJSON re-emits the stored members verbatim and in order.
func (r Record) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		if len(f.Value) == 0 {
			b.WriteString("null")
			continue
		}
		b.Write(f.Value)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// lookup returns the last member with the given key, matching encoding/json.
func (r Record) lookup(key string) (json.RawMessage, bool) {
	for i := len(r.Fields) - 1; i >= 0; i-- {
		if r.Fields[i].Key == key {
			return r.Fields[i].Value, true
		}
	}
	return nil, false
}

func rawString(raw json.RawMessage, ok bool) string {
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// scalarText returns the literal text of a number or the contents of a string.
func scalarText(raw json.RawMessage) (string, bool) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return "", false
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	return text, true
}

func rawFloat(raw json.RawMessage, ok bool) float64 {
	if !ok {
		return 0
	}
	text, ok := scalarText(raw)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func rawInt(raw json.RawMessage, ok bool) int64 {
	if !ok {
		return 0
	}
	text, ok := scalarText(raw)
	if !ok {
		return 0
	}
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int64(f)
}

func rawBool(raw json.RawMessage, ok bool) bool {
	if !ok {
		return false
	}
	text := strings.TrimSpace(string(raw))
	switch text {
	case "true":
		return true
	case "false":
		return false
	}
	s, ok := scalarText(raw)
	if !ok || !strings.HasPrefix(text, `"`) {
		return false
	}
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
