// Package survey reads the preference controls into a SurveySelection.
package survey

import (
	"strings"

	"racket-advisor/internal/models"
)

// Form mirrors the survey controls. A nil field is a control that is not
// present on the page; a present control with a blank value means "no answer".
type Form struct {
	Level      *string `json:"level"`
	Pain       *string `json:"pain"`
	Swing      *string `json:"swing"`
	Power      bool    `json:"power"`
	Control    bool    `json:"control"`
	Spin       bool    `json:"spin"`
	StringType *string `json:"stringType"`
}

// Source supplies the current survey answers at the moment they are needed.
type Source interface {
	Survey() models.SurveySelection
}

// Fixed is a Source that always answers with the same form.
type Fixed Form

func (f Fixed) Survey() models.SurveySelection {
	return Collect(Form(f))
}

// Collect converts the form into the canonical selection. It never fails:
// blanks become null, styles are emitted in power/control/spin order and
// the string type defaults to "auto".
func Collect(form Form) models.SurveySelection {
	styles := []string{}
	if form.Power {
		styles = append(styles, models.StylePower)
	}
	if form.Control {
		styles = append(styles, models.StyleControl)
	}
	if form.Spin {
		styles = append(styles, models.StyleSpin)
	}

	stringType := models.DefaultStringType
	if v := answer(form.StringType); v != nil {
		stringType = *v
	}

	return models.SurveySelection{
		Level:                answer(form.Level),
		Pain:                 answer(form.Pain),
		Swing:                answer(form.Swing),
		Styles:               styles,
		StringTypePreference: stringType,
	}
}

// FromStyles builds a form from a list of style names in any order; unknown
// names are ignored.
func FromStyles(form Form, styles []string) Form {
	for _, s := range styles {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case models.StylePower:
			form.Power = true
		case models.StyleControl:
			form.Control = true
		case models.StyleSpin:
			form.Spin = true
		}
	}
	return form
}

func answer(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
