// internal/pipeline/normalize/values_test.go
package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Boolean normalization
// ==========================

func TestBool_TotalAndIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  bool
	}{
		{"true", true, true},
		{"false", false, false},
		{"one", float64(1), true},
		{"zero", float64(0), false},
		{"int one", 1, true},
		{"json number one", json.Number("1"), true},
		{"string one", "1", true},
		{"string zero", "0", false},
		{"string true", "true", true},
		{"string false", "false", false},
		{"upper TRUE", "TRUE", true},
		{"upper FALSE", "FALSE", false},
		{"undefined", nil, false},
		{"empty string", "", false},
		{"maybe", "maybe", false},
		{"two", float64(2), false},
		{"object", map[string]interface{}{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bool(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Bool(got), "normalizing twice must not change the result")
		})
	}
}

// ==========================
// Tag normalization
// ==========================

func TestTags(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  []string
	}{
		{"delimited string", "a, b ,c", []string{"a", "b", "c"}},
		{"whitespace only separators", "spin  control\tpower", []string{"spin", "control", "power"}},
		{"array with padding and empties", []interface{}{" a ", "b", ""}, []string{"a", "b"}},
		{"string slice", []string{" x", "y "}, []string{"x", "y"}},
		{"null", nil, []string{}},
		{"number", 12.0, []string{}},
		{"object", map[string]interface{}{"a": 1}, []string{}},
		{"array with non strings", []interface{}{"a", nil, 3.0, map[string]interface{}{}}, []string{"a", "3"}},
		{"empty string", "", []string{}},
		{"duplicates kept", "spin,spin", []string{"spin", "spin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tags(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Tags(got), "a normalized list is a fixed point")
		})
	}
}

// ==========================
// Numbers
// ==========================

func TestToNumber(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
		ok    bool
	}{
		{"float", 70.4, 70.4, true},
		{"int", 305, 305, true},
		{"json number", json.Number("38.2"), 38.2, true},
		{"numeric string", " 100 ", 100, true},
		{"blank string", "  ", 0, false},
		{"garbage", "abc", 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	assert.Nil(t, CoerceNumber(""))
	assert.Nil(t, CoerceNumber("   "))

	seven := CoerceNumber(" 7 ")
	require.NotNil(t, seven)
	assert.Equal(t, 7.0, *seven)

	bad := CoerceNumber("seven")
	require.NotNil(t, bad)
	assert.True(t, math.IsNaN(*bad), "unparsable input is kept as NaN")

	assert.Nil(t, WireNumber(nil))
	assert.Nil(t, WireNumber(bad))
	assert.Equal(t, 7.0, WireNumber(seven))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "5", FormatNumber(5))
	assert.Equal(t, "7.5", FormatNumber(7.5))
	assert.Equal(t, "305", FormatNumber(305))
	assert.Equal(t, "0.95", FormatNumber(0.95))
}
