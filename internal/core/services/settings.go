package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeySubjectCap    = "reconcile.subject_cap"
	KeyMinConfidence = "reconcile.min_confidence"
	KeyDropExact     = "reconcile.drop_exact"
	KeyBackup        = "reconcile.backup"
	KeyRecordsFormat = "records.format"
)

var settingsKeys = []string{
	KeySubjectCap,
	KeyMinConfidence,
	KeyDropExact,
	KeyBackup,
	KeyRecordsFormat,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	if v, ok := s.configStore.Get(KeySubjectCap); ok {
		switch n := v.(type) {
		case int64:
			settings.Reconcile.SubjectCap = int(n)
		case int:
			settings.Reconcile.SubjectCap = n
		default:
			return nil, typeError(KeySubjectCap, "an integer", v)
		}
	}

	if v, ok := s.configStore.Get(KeyMinConfidence); ok {
		switch n := v.(type) {
		case float64:
			settings.Reconcile.MinConfidence = n
		case int64:
			settings.Reconcile.MinConfidence = float64(n)
		case int:
			settings.Reconcile.MinConfidence = float64(n)
		default:
			return nil, typeError(KeyMinConfidence, "a number", v)
		}
	}

	if v, ok := s.configStore.Get(KeyDropExact); ok {
		switch v.(type) {
		case []any, []string:
			settings.Reconcile.DropPhrases = s.configStore.GetStringSlice(KeyDropExact)
		default:
			return nil, typeError(KeyDropExact, "an array of strings", v)
		}
	}

	if v, ok := s.configStore.Get(KeyBackup); ok {
		b, isBool := v.(bool)
		if !isBool {
			return nil, typeError(KeyBackup, "a boolean", v)
		}
		settings.Reconcile.Backup = b
	}

	if v, ok := s.configStore.Get(KeyRecordsFormat); ok {
		str, isString := v.(string)
		if !isString {
			return nil, typeError(KeyRecordsFormat, "a string", v)
		}
		format := domain.RecordFormat(str)
		if !format.IsValid() {
			return nil, fmt.Errorf("%w: %s: unknown record format %q", domain.ErrInvalidInput, KeyRecordsFormat, str)
		}
		settings.RecordFormat = format
	}

	if err := settings.Reconcile.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Set parses a textual value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var parsed any
	switch key {
	case KeySubjectCap:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %q", domain.ErrInvalidInput, key, value)
		}
		parsed = n
	case KeyMinConfidence:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %s must be a finite number: %q", domain.ErrInvalidInput, key, value)
		}
		parsed = f
	case KeyDropExact:
		phrases := []string{}
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				phrases = append(phrases, p)
			}
		}
		parsed = phrases
	case KeyBackup:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false: %q", domain.ErrInvalidInput, key, value)
		}
		parsed = b
	case KeyRecordsFormat:
		format := domain.RecordFormat(strings.ToLower(value))
		if !format.IsValid() {
			return fmt.Errorf("%w: unknown record format %q", domain.ErrInvalidInput, value)
		}
		parsed = format.String()
	default:
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised configuration keys.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingsKeys))
	copy(out, settingsKeys)
	return out
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func typeError(key, want string, got any) error {
	return fmt.Errorf("%w: %s must be %s, got %T", domain.ErrInvalidInput, key, want, got)
}
