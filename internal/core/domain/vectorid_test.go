package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVectorID_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want VectorID
	}{
		{"uint64", uint64(42), 42},
		{"uint32", uint32(7), 7},
		{"uint", uint(8), 8},
		{"int", 9, 9},
		{"int32", int32(10), 10},
		{"int64", int64(11), 11},
		{"vector id", VectorID(12), 12},
		{"string", "13", 13},
		{"padded string", "  14\t", 14},
		{"plus sign", "+15", 15},
		{"leading zeros", "0016", 16},
		{"json number", json.Number("17"), 17},
		{"raw literal", json.RawMessage(`18`), 18},
		{"raw quoted", json.RawMessage(`"19"`), 19},
		{"raw quoted padded", json.RawMessage(` " 20 " `), 20},
		{"max int64", "9223372036854775807", 9223372036854775807},
		{"max uint64", "18446744073709551615", 18446744073709551615},
		{"max uint64 raw", json.RawMessage(`18446744073709551615`), 18446744073709551615},
		{"max uint64 native", uint64(18446744073709551615), 18446744073709551615},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVectorID(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsValidVectorID(tt.raw))
		})
	}
}

func TestParseVectorID_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"nil", nil},
		{"zero", 0},
		{"zero string", "0"},
		{"negative", -1},
		{"negative string", "-5"},
		{"overflow", "18446744073709551616"},
		{"decimal", "12.0"},
		{"exponent", "1e3"},
		{"hex", "0x10"},
		{"empty", ""},
		{"spaces", "   "},
		{"plus only", "+"},
		{"double plus", "++1"},
		{"inner space", "1 2"},
		{"letters", "abc"},
		{"raw null", json.RawMessage(`null`)},
		{"raw empty", json.RawMessage(``)},
		{"raw bool", json.RawMessage(`true`)},
		{"raw float", json.RawMessage(`3.5`)},
		{"raw bad string", json.RawMessage(`"12`)},
		{"float64", 12.0},
		{"bool", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVectorID(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
			assert.False(t, IsValidVectorID(tt.raw))
		})
	}
}

func TestVectorID_String(t *testing.T) {
	assert.Equal(t, "18446744073709551615", VectorID(1<<64-1).String())
	assert.Equal(t, "9223372036854775807", VectorID(1<<63-1).String())

	// Adjacent values near 2^63 stay distinct.
	a, err := ParseVectorID("9223372036854775807")
	require.NoError(t, err)
	b, err := ParseVectorID("9223372036854775806")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello world"},
		{"  hello \t\n  WORLD  ", "hello world"},
		{"", ""},
		{" \t ", ""},
		{"ÀB c", "àb c"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.in), "input %q", tt.in)
	}
}
