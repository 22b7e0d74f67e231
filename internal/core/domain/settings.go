package domain

import (
	"fmt"
	"math"
)

const unknownDescription = "Unknown"

// DefaultSubjectCap is the number of records kept per subject when not configured.
const DefaultSubjectCap = 3

// RecordFormat identifies how the record store is persisted.
type RecordFormat string

// Available record store formats.
const (
	// RecordFormatJSON is a single JSON array of record objects.
	RecordFormatJSON RecordFormat = "json"

	// RecordFormatSQLite is a SQLite database holding one JSON body per row.
	RecordFormatSQLite RecordFormat = "sqlite"
)

// IsValid returns true if the record format is recognised.
func (f RecordFormat) IsValid() bool {
	switch f {
	case RecordFormatJSON, RecordFormatSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f RecordFormat) String() string {
	return string(f)
}

// Description returns a human-readable description of the format.
func (f RecordFormat) Description() string {
	switch f {
	case RecordFormatJSON:
		return "JSON array file"
	case RecordFormatSQLite:
		return "SQLite database"
	default:
		return unknownDescription
	}
}

// Options control one reconciliation run.
type Options struct {
	// MinConfidence drops records with a confidence strictly below it.
	MinConfidence float64

	// DropPhrases drops records whose normalised text equals a normalised phrase.
	DropPhrases []string

	// SubjectCap limits survivors per subject. Zero or negative disables capping.
	SubjectCap int

	// DryRun computes and reports the plan without writing anything.
	DryRun bool

	// Backup copies both store files aside before the first write.
	Backup bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		SubjectCap: DefaultSubjectCap,
		Backup:     true,
	}
}

// CapEnabled reports whether subject capping applies.
func (o Options) CapEnabled() bool {
	return o.SubjectCap > 0
}

// Validate checks the options for values no run can honour.
func (o Options) Validate() error {
	if math.IsNaN(o.MinConfidence) || math.IsInf(o.MinConfidence, 0) {
		return fmt.Errorf("%w: min confidence must be finite", ErrInvalidInput)
	}
	return nil
}

// Settings are the persisted defaults applied to every run.
// Command-line flags override them field by field.
type Settings struct {
	// Reconcile carries MinConfidence, DropPhrases, SubjectCap and Backup.
	// DryRun is never persisted.
	Reconcile Options

	// RecordFormat selects the record store adapter.
	RecordFormat RecordFormat
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		Reconcile:    DefaultOptions(),
		RecordFormat: RecordFormatJSON,
	}
}
