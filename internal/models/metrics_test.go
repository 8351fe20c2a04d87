// internal/models/metrics_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(v float64) *float64 { return &v }

func TestHandMetrics_FieldsOnlyPresentKeys(t *testing.T) {
	m := HandMetrics{
		HandLength:   float(70.4),
		HandWidth:    float(38.2),
		FingerRatios: []float64{0.95, 0.88},
	}

	encoded, err := json.Marshal(m.Fields())
	require.NoError(t, err)
	assert.JSONEq(t, `{"handLength":70.4,"handWidth":38.2,"fingerRatios":[0.95,0.88]}`, string(encoded))
	assert.False(t, m.IsEmpty())
}

func TestHandMetrics_ExtraNeverShadowsKnownFields(t *testing.T) {
	large := SizeLarge
	m := HandMetrics{
		HandLength:       float(80),
		HandSizeCategory: &large,
		Extra: map[string]interface{}{
			"handLength":    "stale",
			"captureDevice": "phone",
		},
	}

	fields := m.Fields()
	assert.Equal(t, 80.0, fields["handLength"])
	assert.Equal(t, "LARGE", fields["handSizeCategory"])
	assert.Equal(t, "phone", fields["captureDevice"])
}

func TestHandMetrics_Category(t *testing.T) {
	assert.Equal(t, SizeMedium, HandMetrics{}.Category())

	small := SizeSmall
	assert.Equal(t, SizeSmall, HandMetrics{HandSizeCategory: &small}.Category())
	assert.True(t, HandMetrics{}.IsEmpty())
}

func TestFlowState_Predicates(t *testing.T) {
	assert.True(t, StateScanning.Busy())
	assert.True(t, StateRecommending.Busy())
	assert.False(t, StateMetricsReady.Busy())

	assert.True(t, StateIdle.Stable())
	assert.True(t, StateResultsReady.Stable())
	assert.False(t, StateError.Stable())
	assert.False(t, StateScanning.Stable())
}
