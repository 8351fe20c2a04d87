// internal/models/survey.go
package models

// Play-style tags in the order they are emitted.
const (
	StylePower   = "power"
	StyleControl = "control"
	StyleSpin    = "spin"
)

// DefaultStringType is sent when the user expressed no string preference.
const DefaultStringType = "auto"

// SurveySelection is the user's declared preferences. Nil pointers encode as
// JSON null; Styles is never nil on the wire.
type SurveySelection struct {
	Level                *string  `json:"level"`
	Pain                 *string  `json:"pain"`
	Swing                *string  `json:"swing"`
	Styles               []string `json:"styles"`
	StringTypePreference string   `json:"stringTypePreference"`
}
