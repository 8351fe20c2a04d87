// internal/pipeline/normalize/stringrec.go
package normalize

import (
	"racket-advisor/internal/common/metrics"
	"racket-advisor/internal/models"
)

// Labels derived from the string type when the backend sends none.
const (
	LabelPoly    = "폴리 스트링"
	LabelMulti   = "멀티필라멘트 스트링"
	LabelDefault = "기본 스트링"
)

var (
	stringRecAliases   = aliasChain{"string", "stringRecommendation"}
	tensionKgAliases   = aliasChain{"tensionMainKg", "tension_main_kg", "tensionKg"}
	tensionLbsAliases  = aliasChain{"tensionMainLbs", "tension_main_lbs", "tensionLbs"}
	stringTypeAliases  = aliasChain{"stringType", "string_type"}
	stringLabelAliases = aliasChain{"stringLabel", "string_label"}
)

// StringRecommendation canonicalizes a raw string recommendation. A non-object
// yields nil.
func StringRecommendation(v interface{}) *models.StringRecommendation {
	raw, ok := asObject(v)
	if !ok {
		return nil
	}

	s := &models.StringRecommendation{
		TensionKg:  tensionKgAliases.number(raw),
		TensionLbs: tensionLbsAliases.number(raw),
		Type:       stringTypeAliases.text(raw),
		Reason:     reasonAliases.text(raw),
	}

	// A tension in only one unit cannot be displayed consistently.
	if (s.TensionKg == nil) != (s.TensionLbs == nil) {
		s.TensionKg, s.TensionLbs = nil, nil
		metrics.NormalizeDefaults.WithLabelValues("string.tension").Inc()
	}

	if label := stringLabelAliases.text(raw); label != nil && *label != "" {
		s.Label = *label
	} else if s.Type != nil && *s.Type != "" {
		s.Label = StringLabel(*s.Type)
	}
	return s
}

// StringLabel maps a string type onto its display label.
func StringLabel(stringType string) string {
	switch stringType {
	case "poly":
		return LabelPoly
	case "multi":
		return LabelMulti
	default:
		return LabelDefault
	}
}
