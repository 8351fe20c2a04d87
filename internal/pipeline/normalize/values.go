// Package normalize maps schema-inconsistent backend records onto the
// canonical models. Every function is total: unresolvable fields degrade to
// documented defaults instead of failing the record.
package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"racket-advisor/internal/models"
)

// aliasChain is an ordered list of equivalent field names; the first defined
// one wins.
type aliasChain []string

// number returns the first alias holding a finite number. Numeric strings
// count; anything else falls through to the next alias.
func (c aliasChain) number(rec map[string]interface{}) *float64 {
	for _, key := range c {
		if f, ok := ToNumber(rec[key]); ok {
			return &f
		}
	}
	return nil
}

// text returns the first alias holding a string or number. An empty string
// is defined.
func (c aliasChain) text(rec map[string]interface{}) *string {
	for _, key := range c {
		if s, ok := toText(rec[key]); ok {
			return &s
		}
	}
	return nil
}

// nonBlank is text that skips blank strings.
func (c aliasChain) nonBlank(rec map[string]interface{}) *string {
	for _, key := range c {
		if s, ok := toText(rec[key]); ok && strings.TrimSpace(s) != "" {
			return &s
		}
	}
	return nil
}

// value returns the first alias that is present and not null.
func (c aliasChain) value(rec map[string]interface{}) (interface{}, bool) {
	for _, key := range c {
		if v, ok := rec[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// ToNumber converts JSON numbers, json.Number, Go numeric types and numeric
// strings to a finite float64.
func ToNumber(v interface{}) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toText(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64, float32, int, int32, int64:
		if f, ok := ToNumber(x); ok {
			return FormatNumber(f), true
		}
	}
	return "", false
}

// FormatNumber renders f the way JavaScript template literals do: shortest
// representation, no trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Bool maps the backend's many boolean encodings onto a bool. true, 1, "1",
// "true" and "TRUE" are true; everything else is false.
func Bool(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch x {
		case "1", "true", "TRUE":
			return true
		}
		return false
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 1
	case float64, float32, int, int32, int64:
		f, ok := ToNumber(x)
		return ok && f == 1
	}
	return false
}

var tagSeparators = regexp.MustCompile(`[,\s]+`)

// Tags accepts an array or a comma/whitespace delimited string and returns
// the trimmed, non-empty entries in order. Anything else yields an empty list.
func Tags(v interface{}) []string {
	out := []string{}
	switch x := v.(type) {
	case []string:
		for _, t := range x {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	case []interface{}:
		for _, item := range x {
			t, ok := toText(item)
			if !ok {
				continue
			}
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	case string:
		for _, t := range tagSeparators.Split(x, -1) {
			if t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// CoerceNumber converts admin free text: blank is nil, unparsable text is NaN.
// The NaN is kept on purpose so callers can see the bad input; it is sent as
// null on the wire.
func CoerceNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f = math.NaN()
	}
	return &f
}

// WireNumber is the JSON value for a coerced number: nil and non-finite
// values encode as null.
func WireNumber(p *float64) interface{} {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return nil
	}
	return *p
}

// asObject accepts the map shapes a decoded JSON object can take.
func asObject(v interface{}) (map[string]interface{}, bool) {
	switch x := v.(type) {
	case map[string]interface{}:
		return x, true
	case models.RawRecommendation:
		return map[string]interface{}(x), true
	}
	return nil, false
}
