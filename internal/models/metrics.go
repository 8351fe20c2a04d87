// internal/models/metrics.go
package models

// SizeCategory buckets a hand; an omitted category means MEDIUM.
type SizeCategory string

const (
	SizeSmall  SizeCategory = "SMALL"
	SizeMedium SizeCategory = "MEDIUM"
	SizeLarge  SizeCategory = "LARGE"
)

// Valid reports whether c is one of the known categories.
func (c SizeCategory) Valid() bool {
	switch c {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// HandMetrics are the measurements returned by the scan endpoint. Every field
// is optional; a HandMetrics value is not modified after it is produced.
type HandMetrics struct {
	HandLength       *float64               `json:"handLength,omitempty"`
	HandWidth        *float64               `json:"handWidth,omitempty"`
	HandLengthMm     *float64               `json:"handLengthMm,omitempty"`
	HandLengthCm     *float64               `json:"handLengthCm,omitempty"`
	HandWidthMm      *float64               `json:"handWidthMm,omitempty"`
	HandWidthCm      *float64               `json:"handWidthCm,omitempty"`
	FingerRatios     []float64              `json:"fingerRatios,omitempty"`
	HandSizeCategory *SizeCategory          `json:"handSizeCategory,omitempty"`
	Extra            map[string]interface{} `json:"extra,omitempty"`
}

// Category returns the size category, defaulting to MEDIUM.
func (m HandMetrics) Category() SizeCategory {
	if m.HandSizeCategory == nil {
		return SizeMedium
	}
	return *m.HandSizeCategory
}

// IsEmpty reports whether no field at all is present.
func (m HandMetrics) IsEmpty() bool {
	return len(m.Fields()) == 0
}

// Fields flattens the metrics into the wire shape sent with a recommendation
// request. Only present fields appear; Extra keys never shadow known ones.
func (m HandMetrics) Fields() map[string]interface{} {
	out := make(map[string]interface{}, 8+len(m.Extra))
	for k, v := range m.Extra {
		out[k] = v
	}

	setNumber := func(key string, v *float64) {
		if v != nil {
			out[key] = *v
		}
	}
	setNumber("handLength", m.HandLength)
	setNumber("handWidth", m.HandWidth)
	setNumber("handLengthMm", m.HandLengthMm)
	setNumber("handLengthCm", m.HandLengthCm)
	setNumber("handWidthMm", m.HandWidthMm)
	setNumber("handWidthCm", m.HandWidthCm)

	if len(m.FingerRatios) > 0 {
		ratios := make([]float64, len(m.FingerRatios))
		copy(ratios, m.FingerRatios)
		out["fingerRatios"] = ratios
	}
	if m.HandSizeCategory != nil {
		out["handSizeCategory"] = string(*m.HandSizeCategory)
	}
	return out
}
