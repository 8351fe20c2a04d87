// Package admin is a thin client for the racket catalog REST resource and
// the history listings. Racket records go through the same normalizer as
// recommendations.
package admin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"racket-advisor/internal/common/errors"
	httpclient "racket-advisor/internal/common/http"
	"racket-advisor/internal/common/logger"
	"racket-advisor/internal/models"
	"racket-advisor/internal/pipeline/normalize"
)

const (
	Endpoint    = "admin"
	DefaultPath = "/admin"

	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// Record is one row of a history listing, as returned by the backend.
type Record map[string]interface{}

type Client struct {
	http   *httpclient.Client
	base   string
	logger logger.Logger
}

func NewClient(http *httpclient.Client, basePath string, log logger.Logger) *Client {
	if basePath == "" {
		basePath = DefaultPath
	}
	return &Client{http: http, base: basePath, logger: log.Named("admin")}
}

func (c *Client) path(parts ...string) string {
	p := c.base
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// ==========================
// Catalog
// ==========================

// List returns every racket in the catalog, active or not.
func (c *Client) List(ctx context.Context) ([]models.RacketRecommendation, error) {
	body, err := c.http.Get(ctx, Endpoint, c.path("rackets"), nil)
	if err != nil {
		return nil, err
	}
	payload, err := httpclient.DecodeJSON(body)
	if err != nil {
		return nil, errors.NewDecodeFailedError(Endpoint, err)
	}
	rackets := normalize.Rackets(payload)
	c.logger.Debug("Listed rackets", map[string]interface{}{"count": len(rackets)})
	return rackets, nil
}

func (c *Client) Get(ctx context.Context, id int64) (models.RacketRecommendation, error) {
	body, err := c.http.Get(ctx, Endpoint, c.path("rackets", strconv.FormatInt(id, 10)), nil)
	if err != nil {
		return models.RacketRecommendation{}, err
	}
	return decodeRacket(body)
}

// Create validates the form locally and adds the racket.
func (c *Client) Create(ctx context.Context, form RacketForm) (models.RacketRecommendation, error) {
	payload := form.Payload()
	if err := validatePayload(payload); err != nil {
		return models.RacketRecommendation{}, err
	}
	c.flagUnparsable(form)
	body, err := c.http.PostJSON(ctx, Endpoint, c.path("rackets"), payload)
	if err != nil {
		return models.RacketRecommendation{}, err
	}
	c.logger.Info("Racket created", map[string]interface{}{"name": payload["name"], "brand": payload["brand"]})
	return decodeRacket(body)
}

func (c *Client) Update(ctx context.Context, id int64, form RacketForm) (models.RacketRecommendation, error) {
	payload := form.Payload()
	if err := validatePayload(payload); err != nil {
		return models.RacketRecommendation{}, err
	}
	c.flagUnparsable(form)
	body, err := c.http.PutJSON(ctx, Endpoint, c.path("rackets", strconv.FormatInt(id, 10)), payload)
	if err != nil {
		return models.RacketRecommendation{}, err
	}
	c.logger.Info("Racket updated", map[string]interface{}{"id": id})
	return decodeRacket(body)
}

// flagUnparsable logs inputs that will reach the backend as null instead
// of the number the operator meant to enter.
func (c *Client) flagUnparsable(form RacketForm) {
	if bad := form.Unparsable(); len(bad) > 0 {
		c.logger.Warn("Non-numeric racket fields sent as null", map[string]interface{}{
			"fields": strings.Join(bad, ","),
			"name":   form.Name,
		})
	}
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	if _, err := c.http.Delete(ctx, Endpoint, c.path("rackets", strconv.FormatInt(id, 10))); err != nil {
		return err
	}
	c.logger.Info("Racket deleted", map[string]interface{}{"id": id})
	return nil
}

// Reset reseeds the catalog and returns the server's message, if any.
func (c *Client) Reset(ctx context.Context) (string, error) {
	body, err := c.http.PostJSON(ctx, Endpoint, c.path("reset-db"), struct{}{})
	if err != nil {
		return "", err
	}
	c.logger.Warn("Catalog reset", nil)

	v, err := httpclient.DecodeJSON(body)
	if err != nil {
		return "", nil
	}
	if obj, ok := v.(map[string]interface{}); ok {
		if msg, ok := obj["message"].(string); ok {
			return msg, nil
		}
	}
	return "", nil
}

// decodeRacket accepts {"racket": {...}} or the bare record.
func decodeRacket(body []byte) (models.RacketRecommendation, error) {
	v, err := httpclient.DecodeJSON(body)
	if err != nil {
		return models.RacketRecommendation{}, errors.NewDecodeFailedError(Endpoint, err)
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return models.RacketRecommendation{}, errors.NewDecodeFailedError(Endpoint, fmt.Errorf("expected a JSON object, got %T", v))
	}
	if inner, ok := obj["racket"].(map[string]interface{}); ok {
		obj = inner
	}
	return normalize.Racket(obj), nil
}

// ==========================
// History
// ==========================

func (c *Client) HandMetricsHistory(ctx context.Context, limit int) ([]Record, error) {
	return c.history(ctx, "hand-metrics", limit)
}

func (c *Client) Surveys(ctx context.Context, limit int) ([]Record, error) {
	return c.history(ctx, "surveys", limit)
}

func (c *Client) Recommendations(ctx context.Context, limit int) ([]Record, error) {
	return c.history(ctx, "recommendations", limit)
}

// ClampLimit maps a requested page size onto the range the backend serves.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	}
	return limit
}

func (c *Client) history(ctx context.Context, resource string, limit int) ([]Record, error) {
	query := url.Values{"limit": {strconv.Itoa(ClampLimit(limit))}}
	body, err := c.http.Get(ctx, Endpoint, c.path(resource), query)
	if err != nil {
		return nil, err
	}
	v, err := httpclient.DecodeJSON(body)
	if err != nil {
		return nil, errors.NewDecodeFailedError(Endpoint, err)
	}

	var items []interface{}
	switch p := v.(type) {
	case []interface{}:
		items = p
	case map[string]interface{}:
		items, _ = p["items"].([]interface{})
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			records = append(records, Record(obj))
		}
	}
	return records, nil
}
