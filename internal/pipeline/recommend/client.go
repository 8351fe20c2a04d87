// Package recommend submits hand metrics and survey answers to the
// recommendation endpoint.
package recommend

import (
	"context"
	"fmt"

	"racket-advisor/internal/common/errors"
	httpclient "racket-advisor/internal/common/http"
	"racket-advisor/internal/common/logger"
	"racket-advisor/internal/models"
)

const (
	Endpoint    = "recommend"
	DefaultPath = "/recommend-rackets"

	surveyKey = "survey"
)

type Client struct {
	http   *httpclient.Client
	path   string
	logger logger.Logger
}

func NewClient(http *httpclient.Client, path string, log logger.Logger) *Client {
	if path == "" {
		path = DefaultPath
	}
	return &Client{http: http, path: path, logger: log.Named("recommend")}
}

// BuildRequest flattens the metrics at the top level and nests the survey
// under "survey". Empty metrics yield a body holding only the survey.
func BuildRequest(m models.HandMetrics, s models.SurveySelection) map[string]interface{} {
	body := m.Fields()
	if s.Styles == nil {
		s.Styles = []string{}
	}
	body[surveyKey] = s
	return body
}

// Recommend returns the raw payload. An array response is wrapped as
// {"rackets": [...]} so downstream code always sees an object.
func (c *Client) Recommend(ctx context.Context, m models.HandMetrics, s models.SurveySelection) (models.RawRecommendation, error) {
	body, err := c.http.PostJSON(ctx, Endpoint, c.path, BuildRequest(m, s))
	if err != nil {
		return nil, err
	}

	raw, err := decode(body)
	if err != nil {
		return nil, errors.NewDecodeFailedError(Endpoint, err)
	}
	c.logger.Debug("Recommendation received", map[string]interface{}{
		"has_metrics": !m.IsEmpty(),
		"styles":      len(s.Styles),
	})
	return raw, nil
}

func decode(body []byte) (models.RawRecommendation, error) {
	v, err := httpclient.DecodeJSON(body)
	if err != nil {
		return nil, err
	}
	switch p := v.(type) {
	case map[string]interface{}:
		return models.RawRecommendation(p), nil
	case []interface{}:
		return models.RawRecommendation{"rackets": p}, nil
	default:
		return nil, fmt.Errorf("expected a JSON object or array, got %T", v)
	}
}
