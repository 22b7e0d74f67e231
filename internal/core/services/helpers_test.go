package services

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"strconv"
	"testing"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// captureLog redirects logger output to a buffer for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetRunID("")
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}

// rec describes a test record. ID is the raw JSON literal for vector_id;
// an empty ID omits the member.
type rec struct {
	ID         string
	Text       string
	Subject    string
	Confidence float64
	Timestamp  int64
	Decided    bool
	Extra      map[string]string
}

func (r rec) fields() []domain.Field {
	quote := func(s string) json.RawMessage {
		b, _ := json.Marshal(s)
		return b
	}
	fields := []domain.Field{
		{Key: domain.FieldText, Value: quote(r.Text)},
		{Key: domain.FieldSubject, Value: quote(r.Subject)},
		{Key: domain.FieldConfidence, Value: json.RawMessage(strconv.FormatFloat(r.Confidence, 'g', -1, 64))},
		{Key: domain.FieldTimestamp, Value: json.RawMessage(strconv.FormatInt(r.Timestamp, 10))},
		{Key: domain.FieldDecided, Value: json.RawMessage(strconv.FormatBool(r.Decided))},
	}
	if r.ID != "" {
		fields = append(fields, domain.Field{Key: domain.FieldVectorID, Value: json.RawMessage(r.ID)})
	}
	for k, v := range r.Extra {
		fields = append(fields, domain.Field{Key: k, Value: json.RawMessage(v)})
	}
	return fields
}

// build turns specs into records numbered by position.
func build(specs ...rec) []domain.Record {
	out := make([]domain.Record, len(specs))
	for i, s := range specs {
		out[i] = domain.NewRecord(i, s.fields())
	}
	return out
}

func id(n uint64) string {
	return strconv.FormatUint(n, 10)
}

func texts(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Text
	}
	return out
}

func vids(ns ...uint64) []domain.VectorID {
	out := make([]domain.VectorID, len(ns))
	for i, n := range ns {
		out[i] = domain.VectorID(n)
	}
	return out
}

func nan() float64 {
	return math.NaN()
}
