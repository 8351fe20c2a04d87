// internal/pipeline/admin/form.go
package admin

import (
	"math"
	"strings"

	"racket-advisor/internal/common/errors"
	"racket-advisor/internal/common/validation"
	"racket-advisor/internal/pipeline/normalize"
)

// RacketForm is the catalog editor. Numeric inputs are free text, exactly as
// typed by the operator.
type RacketForm struct {
	Name  string `json:"name"`
	Brand string `json:"brand"`

	Power   string `json:"power"`
	Control string `json:"control"`
	Spin    string `json:"spin"`
	Weight  string `json:"weight"`
	Tags    string `json:"tags"`

	HeadSize      string `json:"headSizeSqIn,omitempty"`
	StringPattern string `json:"stringPattern,omitempty"`
	Swingweight   string `json:"swingweight,omitempty"`
	Stiffness     string `json:"stiffnessRa,omitempty"`
	LengthMm      string `json:"lengthMm,omitempty"`
	BeamWidthMm   string `json:"beamWidthMm,omitempty"`
	BalanceType   string `json:"balanceType,omitempty"`
	URL           string `json:"url,omitempty"`
	Active        *bool  `json:"isActive,omitempty"`
}

// Payload builds the request body. Blank numeric inputs become null and
// non-numeric ones become NaN, which is sent as null as well. Optional racket
// fields are only sent when filled in.
func (f RacketForm) Payload() map[string]interface{} {
	p := map[string]interface{}{
		"name":    strings.TrimSpace(f.Name),
		"brand":   strings.TrimSpace(f.Brand),
		"power":   normalize.WireNumber(normalize.CoerceNumber(f.Power)),
		"control": normalize.WireNumber(normalize.CoerceNumber(f.Control)),
		"spin":    normalize.WireNumber(normalize.CoerceNumber(f.Spin)),
		"weight":  normalize.WireNumber(normalize.CoerceNumber(f.Weight)),
		"tags":    normalize.Tags(f.Tags),
	}

	numbers := map[string]string{
		"headSizeSqIn": f.HeadSize,
		"swingweight":  f.Swingweight,
		"stiffnessRa":  f.Stiffness,
		"lengthMm":     f.LengthMm,
		"beamWidthMm":  f.BeamWidthMm,
	}
	for key, raw := range numbers {
		if strings.TrimSpace(raw) != "" {
			p[key] = normalize.WireNumber(normalize.CoerceNumber(raw))
		}
	}

	texts := map[string]string{
		"stringPattern": f.StringPattern,
		"balanceType":   f.BalanceType,
		"url":           f.URL,
	}
	for key, raw := range texts {
		if v := strings.TrimSpace(raw); v != "" {
			p[key] = v
		}
	}

	if f.Active != nil {
		p["isActive"] = *f.Active
	}
	return p
}

// Unparsable lists the numeric inputs that were filled in but are not
// numbers. They coerce to NaN and go out as null.
func (f RacketForm) Unparsable() []string {
	inputs := []struct{ key, raw string }{
		{"power", f.Power},
		{"control", f.Control},
		{"spin", f.Spin},
		{"weight", f.Weight},
		{"headSizeSqIn", f.HeadSize},
		{"swingweight", f.Swingweight},
		{"stiffnessRa", f.Stiffness},
		{"lengthMm", f.LengthMm},
		{"beamWidthMm", f.BeamWidthMm},
	}
	var bad []string
	for _, in := range inputs {
		if v := normalize.CoerceNumber(in.raw); v != nil && math.IsNaN(*v) {
			bad = append(bad, in.key)
		}
	}
	return bad
}

var nullableNumber = map[string]interface{}{"type": []interface{}{"number", "null"}}

var racketSchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"name", "brand"},
	"properties": map[string]interface{}{
		"name":          map[string]interface{}{"type": "string", "minLength": 1},
		"brand":         map[string]interface{}{"type": "string", "minLength": 1},
		"power":         nullableNumber,
		"control":       nullableNumber,
		"spin":          nullableNumber,
		"weight":        nullableNumber,
		"headSizeSqIn":  nullableNumber,
		"swingweight":   nullableNumber,
		"stiffnessRa":   nullableNumber,
		"lengthMm":      nullableNumber,
		"beamWidthMm":   nullableNumber,
		"tags":          map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		"stringPattern": map[string]interface{}{"type": "string"},
		"balanceType":   map[string]interface{}{"type": "string"},
		"url":           map[string]interface{}{"type": "string"},
		"isActive":      map[string]interface{}{"type": "boolean"},
	},
})

// validatePayload rejects a payload before any request is made.
func validatePayload(payload map[string]interface{}) error {
	result, err := racketSchema.Validate(payload)
	if err != nil {
		return errors.NewInvalidPayloadError(err.Error())
	}
	if !result.Valid {
		return errors.NewInvalidPayloadError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}
