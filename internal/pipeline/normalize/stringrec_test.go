// internal/pipeline/normalize/stringrec_test.go
package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRecommendation(t *testing.T) {
	s := StringRecommendation(decodeObject(t, `{"tensionMainKg":23,"tensionMainLbs":51,"stringType":"poly","reason":"arm friendly"}`))
	require.NotNil(t, s)
	assert.Equal(t, 23.0, *s.TensionKg)
	assert.Equal(t, 51.0, *s.TensionLbs)
	assert.Equal(t, "poly", *s.Type)
	assert.Equal(t, LabelPoly, s.Label)
	assert.Equal(t, "arm friendly", *s.Reason)
}

func TestStringRecommendation_Labels(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"explicit label wins", `{"stringType":"poly","stringLabel":"하이브리드"}`, "하이브리드"},
		{"multi", `{"string_type":"multi"}`, LabelMulti},
		{"unknown type", `{"stringType":"gut"}`, LabelDefault},
		{"empty label falls back to type", `{"stringType":"poly","stringLabel":""}`, LabelPoly},
		{"nothing", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := StringRecommendation(decodeObject(t, tt.body))
			require.NotNil(t, s)
			assert.Equal(t, tt.want, s.Label)
		})
	}
}

func TestStringRecommendation_TensionUnitsCoPresent(t *testing.T) {
	onlyKg := StringRecommendation(decodeObject(t, `{"tensionMainKg":23}`))
	assert.Nil(t, onlyKg.TensionKg)
	assert.Nil(t, onlyKg.TensionLbs)

	snake := StringRecommendation(decodeObject(t, `{"tension_main_kg":"22.5","tension_main_lbs":50}`))
	assert.Equal(t, 22.5, *snake.TensionKg)
	assert.Equal(t, 50.0, *snake.TensionLbs)
}

func TestStringRecommendation_NonObject(t *testing.T) {
	assert.Nil(t, StringRecommendation(nil))
	assert.Nil(t, StringRecommendation("poly"))
}

func TestRecommendation_Bundle(t *testing.T) {
	raw := decodeObject(t, `{
		"rackets":[{"name":"Pure Aero","score":91.2}],
		"stringRecommendation":{"tensionMainKg":24,"tensionMainLbs":53,"stringType":"multi"},
		"handProfile":{"handSizeCategory":"large","gripSizeLabel":"L3","handType":"long","handLengthMm":198.5}
	}`)

	rec := Recommendation(raw)
	require.Len(t, rec.Rackets, 1)
	require.NotNil(t, rec.String)
	assert.Equal(t, LabelMulti, rec.String.Label)

	require.NotNil(t, rec.HandProfile)
	assert.Equal(t, "LARGE", string(*rec.HandProfile.SizeCategory))
	assert.Equal(t, "L3", *rec.HandProfile.GripSizeLabel)
	assert.Equal(t, "long", *rec.HandProfile.HandType)
	assert.Equal(t, 198.5, *rec.HandProfile.HandLengthMm)
	assert.Nil(t, rec.HandProfile.HandWidthMm)
}

func TestRecommendation_StringKeyPreferred(t *testing.T) {
	raw := decodeObject(t, `{"string":{"stringType":"poly"},"stringRecommendation":{"stringType":"multi"}}`)
	rec := Recommendation(raw)
	require.NotNil(t, rec.String)
	assert.Equal(t, LabelPoly, rec.String.Label)
	assert.Empty(t, rec.Rackets)
	assert.Nil(t, rec.HandProfile)
}
