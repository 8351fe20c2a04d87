// internal/pipeline/normalize/racket.go
package normalize

import (
	"fmt"
	"math"

	"racket-advisor/internal/common/metrics"
	"racket-advisor/internal/models"
)

// DefaultRacketName is shown when no name alias holds a non-blank value.
const DefaultRacketName = "이름 없음"

var (
	racketIDAliases   = aliasChain{"id", "racketId", "racket_id"}
	racketNameAliases = aliasChain{"name", "model", "racketName"}
	brandAliases      = aliasChain{"brand", "manufacturer"}
	scoreAliases      = aliasChain{"score"}
	powerAliases      = aliasChain{"power", "powerScore"}
	controlAliases    = aliasChain{"control", "controlScore"}
	spinAliases       = aliasChain{"spin", "spinScore"}

	headSizeAliases      = aliasChain{"headSize", "headSizeSqIn", "head_size_sq_in"}
	weightAliases        = aliasChain{"unstrungWeight", "unstrungWeightG", "unstrung_weight_g", "weight"}
	stringPatternAliases = aliasChain{"stringPattern", "string_pattern"}
	swingweightAliases   = aliasChain{"swingweight", "swingWeight", "swing_weight"}
	stiffnessAliases     = aliasChain{"stiffnessRa", "stiffness_ra", "stiffness"}
	beamWidthAliases     = aliasChain{"beamWidthMm", "beam_width_mm", "beamWidth"}
	lengthAliases        = aliasChain{"lengthMm", "length_mm", "length"}
	balanceTypeAliases   = aliasChain{"balanceType", "balance_type"}

	reasonAliases = aliasChain{"reason", "rationale"}
	urlAliases    = aliasChain{"url"}
	activeAliases = aliasChain{"isActive", "is_active", "active"}
)

// Racket canonicalizes one raw racket record.
func Racket(raw map[string]interface{}) models.RacketRecommendation {
	r := models.RacketRecommendation{
		ID:      racketID(raw),
		Brand:   brandAliases.text(raw),
		Score:   scoreAliases.number(raw),
		Power:   powerAliases.number(raw),
		Control: controlAliases.number(raw),
		Spin:    spinAliases.number(raw),
		RacketSpecs: models.RacketSpecs{
			HeadSize:      headSizeAliases.number(raw),
			StringPattern: stringPatternAliases.text(raw),
			Weight:        weightAliases.number(raw),
			Swingweight:   swingweightAliases.number(raw),
			Stiffness:     stiffnessAliases.number(raw),
			BeamWidth:     beamWidthAliases.text(raw),
			Length:        lengthAliases.number(raw),
			BalanceType:   balanceTypeAliases.text(raw),
		},
		Tags:   Tags(raw["tags"]),
		Reason: reasonAliases.text(raw),
		URL:    urlAliases.text(raw),
	}

	if name := racketNameAliases.nonBlank(raw); name != nil {
		r.Name = *name
	} else {
		r.Name = DefaultRacketName
		r.NameDefaulted = true
		metrics.NormalizeDefaults.WithLabelValues("racket.name").Inc()
	}

	if v, ok := activeAliases.value(raw); ok {
		r.Active = Bool(v)
	}

	if r.Score == nil {
		r.ScoreLabel = ScoreLabel(r.Power, r.Control, r.Spin)
	}
	return r
}

// ScoreLabel is the compact "P{power}/C{control}/S{spin}" label used when a
// record has no fit score. It needs both power and control; a missing spin
// prints as "-".
func ScoreLabel(power, control, spin *float64) string {
	if power == nil || control == nil {
		return ""
	}
	s := "-"
	if spin != nil {
		s = FormatNumber(*spin)
	}
	return fmt.Sprintf("P%s/C%s/S%s", FormatNumber(*power), FormatNumber(*control), s)
}

// Rackets extracts the racket list from a payload that is either an object
// with a "rackets" array or the array itself. Non-object entries are
// skipped.
func Rackets(payload interface{}) []models.RacketRecommendation {
	var entries []interface{}
	switch p := payload.(type) {
	case []interface{}:
		entries = p
	default:
		if obj, ok := asObject(payload); ok {
			entries, _ = obj["rackets"].([]interface{})
		}
	}

	out := make([]models.RacketRecommendation, 0, len(entries))
	for _, entry := range entries {
		rec, ok := asObject(entry)
		if !ok {
			metrics.NormalizeDefaults.WithLabelValues("racket").Inc()
			continue
		}
		out = append(out, Racket(rec))
	}
	return out
}

func racketID(raw map[string]interface{}) *int64 {
	for _, key := range racketIDAliases {
		f, ok := ToNumber(raw[key])
		if !ok || f != math.Trunc(f) || f < -(1<<63) || f >= 1<<63 {
			continue
		}
		id := int64(f)
		return &id
	}
	return nil
}
