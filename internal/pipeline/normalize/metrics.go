// internal/pipeline/normalize/metrics.go
package normalize

import (
	"strings"

	"racket-advisor/internal/models"
)

var (
	handLengthAliases   = aliasChain{"handLength", "hand_length"}
	handWidthAliases    = aliasChain{"handWidth", "hand_width"}
	handLengthMmAliases = aliasChain{"handLengthMm", "hand_length_mm"}
	handLengthCmAliases = aliasChain{"handLengthCm", "hand_length_cm"}
	handWidthMmAliases  = aliasChain{"handWidthMm", "hand_width_mm"}
	handWidthCmAliases  = aliasChain{"handWidthCm", "hand_width_cm"}
	fingerRatioAliases  = aliasChain{"fingerRatios", "finger_ratios"}
	sizeCategoryAliases = aliasChain{"handSizeCategory", "hand_size_category", "sizeCategory"}
)

var knownMetricKeys = func() map[string]struct{} {
	keys := map[string]struct{}{}
	for _, chain := range []aliasChain{
		handLengthAliases, handWidthAliases,
		handLengthMmAliases, handLengthCmAliases,
		handWidthMmAliases, handWidthCmAliases,
		fingerRatioAliases, sizeCategoryAliases,
	} {
		for _, k := range chain {
			keys[k] = struct{}{}
		}
	}
	return keys
}()

// Metrics canonicalizes a scan response. Unknown scalar keys are kept in
// Extra so they travel back with the recommendation request.
func Metrics(raw map[string]interface{}) models.HandMetrics {
	m := models.HandMetrics{
		HandLength:       handLengthAliases.number(raw),
		HandWidth:        handWidthAliases.number(raw),
		HandLengthMm:     handLengthMmAliases.number(raw),
		HandLengthCm:     handLengthCmAliases.number(raw),
		HandWidthMm:      handWidthMmAliases.number(raw),
		HandWidthCm:      handWidthCmAliases.number(raw),
		FingerRatios:     fingerRatios(raw),
		HandSizeCategory: sizeCategory(sizeCategoryAliases.text(raw)),
	}

	for k, v := range raw {
		if _, known := knownMetricKeys[k]; known {
			continue
		}
		if scalar, ok := scalarValue(v); ok {
			if m.Extra == nil {
				m.Extra = map[string]interface{}{}
			}
			m.Extra[k] = scalar
		}
	}
	return m
}

// fingerRatios accepts an array or a delimited string of at least two
// numbers and keeps the first two.
func fingerRatios(raw map[string]interface{}) []float64 {
	for _, key := range fingerRatioAliases {
		var items []interface{}
		switch x := raw[key].(type) {
		case []interface{}:
			items = x
		case []float64:
			for _, f := range x {
				items = append(items, f)
			}
		case string:
			for _, t := range Tags(x) {
				items = append(items, t)
			}
		default:
			continue
		}

		if len(items) < 2 {
			continue
		}
		ratios := make([]float64, 0, 2)
		for _, item := range items[:2] {
			f, ok := ToNumber(item)
			if !ok {
				break
			}
			ratios = append(ratios, f)
		}
		if len(ratios) == 2 {
			return ratios
		}
	}
	return nil
}

func sizeCategory(v *string) *models.SizeCategory {
	if v == nil {
		return nil
	}
	c := models.SizeCategory(strings.ToUpper(strings.TrimSpace(*v)))
	if !c.Valid() {
		return nil
	}
	return &c
}

func scalarValue(v interface{}) (interface{}, bool) {
	switch x := v.(type) {
	case string, bool:
		return x, true
	default:
		if f, ok := ToNumber(x); ok {
			return f, true
		}
	}
	return nil, false
}
