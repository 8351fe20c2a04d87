// internal/pipeline/render/view.go
package render

import (
	"racket-advisor/internal/models"
)

// ViewInput is everything the page needs to draw one session.
type ViewInput struct {
	State          models.FlowState
	Status         models.UIStatus
	Image          *models.SelectedImage
	Preview        *models.Preview
	Metrics        *models.HandMetrics
	Recommendation *models.Recommendation
}

// StringView is the string recommendation panel.
type StringView struct {
	Main   string `json:"main"`
	Reason string `json:"reason,omitempty"`
}

// View is the ready-to-draw page model.
type View struct {
	State              models.FlowState `json:"state"`
	Busy               bool             `json:"busy"`
	Error              string           `json:"error,omitempty"`
	FileName           string           `json:"fileName,omitempty"`
	Preview            string           `json:"preview,omitempty"`
	Metrics            []MetricItem     `json:"metrics"`
	MetricsPlaceholder string           `json:"metricsPlaceholder,omitempty"`
	Rackets            []RacketCard     `json:"rackets"`
	RacketsPlaceholder string           `json:"racketsPlaceholder,omitempty"`
	String             StringView       `json:"string"`
	Profile            []MetricItem     `json:"profile"`
}

func (r Renderer) View(in ViewInput) View {
	v := View{
		State:   in.State,
		Busy:    in.Status.Busy,
		Error:   in.Status.Error,
		Metrics: []MetricItem{},
		Rackets: []RacketCard{},
		Profile: []MetricItem{},
	}
	if in.Image != nil {
		v.FileName = in.Image.Name
	}
	if in.Preview != nil {
		v.Preview = in.Preview.DataURL
	}

	if in.Metrics != nil {
		v.Metrics = r.MetricItems(*in.Metrics)
		if len(v.Metrics) == 0 {
			v.MetricsPlaceholder = r.msgs.NoMetrics
		}
	}

	switch {
	case in.Recommendation != nil:
		v.Rackets = r.Cards(in.Recommendation.Rackets, CardOptions{})
		if len(v.Rackets) == 0 {
			v.RacketsPlaceholder = r.msgs.NoRackets
		}
		v.String.Main = r.StringLine(in.Recommendation.String)
		if s := in.Recommendation.String; s != nil && s.Reason != nil {
			v.String.Reason = *s.Reason
		}
		v.Profile = r.ProfileItems(in.Recommendation.HandProfile)
	case in.Status.Busy:
		v.String.Main = r.msgs.StringPending
	}
	return v
}
