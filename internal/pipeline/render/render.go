// Package render turns canonical pipeline entities into display strings.
// Every method is a pure function of its arguments and the locale.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"racket-advisor/internal/models"
	"racket-advisor/internal/pipeline/normalize"
)

// Missing is shown for an absent numeric value.
const Missing = "-"

// Renderer formats entities for one locale.
type Renderer struct {
	locale Locale
	msgs   catalog
}

func New(locale Locale) Renderer {
	msgs, ok := catalogs[locale]
	if !ok {
		locale = Korean
		msgs = catalogs[Korean]
	}
	return Renderer{locale: locale, msgs: msgs}
}

// NewFromTag is New(ParseLocale(tag)).
func NewFromTag(tag string) Renderer {
	return New(ParseLocale(tag))
}

func (r Renderer) Locale() Locale {
	return r.locale
}

// ==========================
// Numbers
// ==========================

// toFixed mirrors JavaScript's Number.prototype.toFixed, which resolves exact
// ties away from zero where strconv rounds them to even.
func toFixed(v float64, digits int) string {
	if v < 0 {
		return "-" + toFixed(-v, digits)
	}
	pow := math.Pow10(digits)
	scaled := v * pow
	if scaled-math.Floor(scaled) == 0.5 {
		return strconv.FormatFloat((math.Floor(scaled)+1)/pow, 'f', digits, 64)
	}
	return strconv.FormatFloat(v, 'f', digits, 64)
}

// Number renders v with fixed decimals, or Missing.
func (r Renderer) Number(v *float64, digits int) string {
	if v == nil {
		return Missing
	}
	return toFixed(*v, digits)
}

// Score renders a 0-100 fit score: values within 0.05 of 100 print as "100",
// everything else with one decimal.
func (r Renderer) Score(v *float64) string {
	if v == nil {
		return Missing
	}
	if math.Abs(*v-100) <= 0.05 {
		return "100"
	}
	return toFixed(*v, 1)
}

// ==========================
// Rackets
// ==========================

// CardOptions switches between presentation variants.
type CardOptions struct {
	NameAsTag bool
}

// RacketCard is one rendered racket.
type RacketCard struct {
	ID     *int64   `json:"id,omitempty"`
	Name   string   `json:"name"`
	Brand  string   `json:"brand,omitempty"`
	Score  string   `json:"score"`
	Tags   []string `json:"tags"`
	Reason string   `json:"reason"`
	Active bool     `json:"active"`
	URL    string   `json:"url,omitempty"`
}

// Name returns the display name, localizing the default.
func (r Renderer) Name(rr models.RacketRecommendation) string {
	if rr.NameDefaulted || strings.TrimSpace(rr.Name) == "" {
		return r.msgs.NoName
	}
	return rr.Name
}

// ScoreText is "적합도 87.3점" when a score exists, the P/C/S label otherwise.
func (r Renderer) ScoreText(rr models.RacketRecommendation) string {
	if rr.Score != nil {
		return fmt.Sprintf(r.msgs.ScoreFormat, r.Score(rr.Score))
	}
	return rr.ScoreLabel
}

// Tags assembles the tag row: optional name, head size, string pattern,
// weight, then the record's own tags. Duplicates are kept.
func (r Renderer) Tags(rr models.RacketRecommendation, opts CardOptions) []string {
	tags := []string{}
	if opts.NameAsTag {
		tags = append(tags, r.Name(rr))
	}
	if rr.HeadSize != nil {
		tags = append(tags, normalize.FormatNumber(*rr.HeadSize)+" sq.in")
	}
	if rr.StringPattern != nil && *rr.StringPattern != "" {
		tags = append(tags, *rr.StringPattern)
	}
	if rr.Weight != nil {
		tags = append(tags, normalize.FormatNumber(*rr.Weight)+"g")
	}
	return append(tags, rr.Tags...)
}

// Reason returns the record's reason or the generic sentence.
func (r Renderer) Reason(rr models.RacketRecommendation) string {
	if rr.Reason != nil && strings.TrimSpace(*rr.Reason) != "" {
		return *rr.Reason
	}
	return r.msgs.DefaultReason
}

func (r Renderer) Card(rr models.RacketRecommendation, opts CardOptions) RacketCard {
	card := RacketCard{
		ID:     rr.ID,
		Name:   r.Name(rr),
		Score:  r.ScoreText(rr),
		Tags:   r.Tags(rr, opts),
		Reason: r.Reason(rr),
		Active: rr.Active,
	}
	if rr.Brand != nil {
		card.Brand = *rr.Brand
	}
	if rr.URL != nil {
		card.URL = *rr.URL
	}
	return card
}

func (r Renderer) Cards(list []models.RacketRecommendation, opts CardOptions) []RacketCard {
	cards := make([]RacketCard, 0, len(list))
	for _, rr := range list {
		cards = append(cards, r.Card(rr, opts))
	}
	return cards
}

// AdminScores renders the P/C/S columns of the admin table.
func (r Renderer) AdminScores(rr models.RacketRecommendation) []string {
	return []string{
		"P" + r.plain(rr.Power),
		"C" + r.plain(rr.Control),
		"S" + r.plain(rr.Spin),
	}
}

func (r Renderer) plain(v *float64) string {
	if v == nil {
		return Missing
	}
	return normalize.FormatNumber(*v)
}

// ==========================
// String recommendation
// ==========================

// Tension renders "23.0kg (51lbs)"; ok is false unless both units exist.
func (r Renderer) Tension(s *models.StringRecommendation) (string, bool) {
	if s == nil || s.TensionKg == nil || s.TensionLbs == nil {
		return "", false
	}
	return fmt.Sprintf("%skg (%slbs)", toFixed(*s.TensionKg, 1), normalize.FormatNumber(*s.TensionLbs)), true
}

// StringLine is the main line of the string panel.
func (r Renderer) StringLine(s *models.StringRecommendation) string {
	if s == nil {
		return r.msgs.NoStringInfo
	}
	tension, ok := r.Tension(s)
	switch {
	case ok && s.Label != "":
		return tension + " · " + s.Label
	case ok:
		return tension
	case s.Label != "":
		return s.Label
	default:
		return r.msgs.NoStringInfo
	}
}

// ==========================
// Hand metrics and profile
// ==========================

// MetricItem is one label/value row of a panel.
type MetricItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// MetricItems lists the present metrics in display order.
func (r Renderer) MetricItems(m models.HandMetrics) []MetricItem {
	items := []MetricItem{}
	if m.HandLength != nil {
		items = append(items, MetricItem{r.msgs.LengthIndex, toFixed(*m.HandLength, 0)})
	}
	if m.HandWidth != nil {
		items = append(items, MetricItem{r.msgs.WidthIndex, toFixed(*m.HandWidth, 0)})
	}
	if len(m.FingerRatios) > 0 {
		parts := make([]string, len(m.FingerRatios))
		for i, v := range m.FingerRatios {
			parts[i] = toFixed(v, 2)
		}
		items = append(items, MetricItem{r.msgs.FingerRatios, strings.Join(parts, " / ")})
	}
	if m.HandLengthMm != nil {
		items = append(items, MetricItem{r.msgs.LengthMm, toFixed(*m.HandLengthMm, 1)})
	}
	if m.HandLengthCm != nil {
		items = append(items, MetricItem{r.msgs.LengthCm, toFixed(*m.HandLengthCm, 1)})
	}
	if m.HandWidthMm != nil {
		items = append(items, MetricItem{r.msgs.WidthMm, toFixed(*m.HandWidthMm, 1)})
	}
	if m.HandWidthCm != nil {
		items = append(items, MetricItem{r.msgs.WidthCm, toFixed(*m.HandWidthCm, 1)})
	}
	if m.HandSizeCategory != nil {
		items = append(items, MetricItem{r.msgs.SizeCategory, r.msgs.Sizes[*m.HandSizeCategory]})
	}
	return items
}

// ProfileItems renders the backend's hand profile.
func (r Renderer) ProfileItems(p *models.HandProfile) []MetricItem {
	items := []MetricItem{}
	if p == nil {
		return items
	}
	if p.SizeCategory != nil {
		items = append(items, MetricItem{r.msgs.SizeCategory, r.msgs.Sizes[*p.SizeCategory]})
	}
	if p.GripSizeLabel != nil {
		items = append(items, MetricItem{r.msgs.GripSize, *p.GripSizeLabel})
	}
	if p.HandType != nil {
		items = append(items, MetricItem{r.msgs.HandType, *p.HandType})
	}
	if p.HandLengthMm != nil {
		items = append(items, MetricItem{r.msgs.LengthMm, toFixed(*p.HandLengthMm, 1)})
	}
	if p.HandWidthMm != nil {
		items = append(items, MetricItem{r.msgs.WidthMm, toFixed(*p.HandWidthMm, 1)})
	}
	return items
}
