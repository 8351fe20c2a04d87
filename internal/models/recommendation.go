// internal/models/recommendation.go
package models

// RawRecommendation is the decoded recommendation response before
// normalization.
type RawRecommendation map[string]interface{}

// RacketSpecs holds the optional physical specification of a racket.
type RacketSpecs struct {
	HeadSize      *float64 `json:"headSize,omitempty"`
	StringPattern *string  `json:"stringPattern,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Swingweight   *float64 `json:"swingweight,omitempty"`
	Stiffness     *float64 `json:"stiffness,omitempty"`
	BeamWidth     *string  `json:"beamWidth,omitempty"`
	Length        *float64 `json:"length,omitempty"`
	BalanceType   *string  `json:"balanceType,omitempty"`
}

// RacketRecommendation is the canonical racket record shared by the
// recommendation and admin views.
type RacketRecommendation struct {
	ID            *int64   `json:"id,omitempty"`
	Name          string   `json:"name"`
	NameDefaulted bool     `json:"-"`
	Brand         *string  `json:"brand,omitempty"`
	Score         *float64 `json:"score,omitempty"`
	ScoreLabel    string   `json:"scoreLabel,omitempty"`
	Power         *float64 `json:"power,omitempty"`
	Control       *float64 `json:"control,omitempty"`
	Spin          *float64 `json:"spin,omitempty"`
	RacketSpecs
	Tags   []string `json:"tags"`
	Reason *string  `json:"reason,omitempty"`
	Active bool     `json:"active"`
	URL    *string  `json:"url,omitempty"`
}

// StringRecommendation is the canonical string setup. TensionKg and
// TensionLbs are either both set or both nil.
type StringRecommendation struct {
	TensionKg  *float64 `json:"tensionKg,omitempty"`
	TensionLbs *float64 `json:"tensionLbs,omitempty"`
	Type       *string  `json:"type,omitempty"`
	Label      string   `json:"label,omitempty"`
	Reason     *string  `json:"reason,omitempty"`
}

// HandProfile is the backend's interpretation of the scanned hand.
type HandProfile struct {
	SizeCategory  *SizeCategory `json:"handSizeCategory,omitempty"`
	GripSizeLabel *string       `json:"gripSizeLabel,omitempty"`
	HandType      *string       `json:"handType,omitempty"`
	HandLengthMm  *float64      `json:"handLengthMm,omitempty"`
	HandWidthMm   *float64      `json:"handWidthMm,omitempty"`
}

// Recommendation bundles every normalized part of one response.
type Recommendation struct {
	Rackets     []RacketRecommendation `json:"rackets"`
	String      *StringRecommendation  `json:"string,omitempty"`
	HandProfile *HandProfile           `json:"handProfile,omitempty"`
}
