// internal/pipeline/normalize/recommendation.go
package normalize

import (
	"racket-advisor/internal/models"
)

var (
	gripSizeAliases      = aliasChain{"gripSizeLabel", "grip_size_label", "gripSize"}
	handTypeAliases      = aliasChain{"handType", "hand_type"}
	profileLengthAliases = aliasChain{"handLengthMm", "hand_length_mm"}
	profileWidthAliases  = aliasChain{"handWidthMm", "hand_width_mm"}
	profileSizeAliases   = aliasChain{"handSizeCategory", "hand_size_category", "sizeGroup"}
)

// Recommendation normalizes a full recommendation response.
func Recommendation(raw models.RawRecommendation) models.Recommendation {
	rec := models.Recommendation{
		Rackets: Rackets(raw),
	}
	if v, ok := stringRecAliases.value(raw); ok {
		rec.String = StringRecommendation(v)
	}
	if v, ok := raw["handProfile"]; ok {
		rec.HandProfile = HandProfile(v)
	}
	return rec
}

// HandProfile canonicalizes the optional hand profile. A non-object yields nil.
func HandProfile(v interface{}) *models.HandProfile {
	raw, ok := asObject(v)
	if !ok {
		return nil
	}
	return &models.HandProfile{
		SizeCategory:  sizeCategory(profileSizeAliases.text(raw)),
		GripSizeLabel: gripSizeAliases.nonBlank(raw),
		HandType:      handTypeAliases.nonBlank(raw),
		HandLengthMm:  profileLengthAliases.number(raw),
		HandWidthMm:   profileWidthAliases.number(raw),
	}
}
