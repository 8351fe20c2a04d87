// Package scan submits a hand photograph to the measurement endpoint.
package scan

import (
	"context"
	"fmt"
	"strconv"

	"racket-advisor/internal/common/errors"
	httpclient "racket-advisor/internal/common/http"
	"racket-advisor/internal/common/logger"
	"racket-advisor/internal/common/validation"
	"racket-advisor/internal/models"
	"racket-advisor/internal/pipeline/normalize"
)

const (
	Endpoint = "scan"

	DefaultPath              = "/scan-hand"
	DefaultUploadField       = "file"
	LegacyUploadField        = "image"
	DefaultCaptureDistanceCm = 30.0
)

type Options struct {
	Path              string
	UploadField       string
	CaptureDistanceCm float64
}

// Client calls the scan endpoint. It is safe for concurrent use.
type Client struct {
	http     *httpclient.Client
	path     string
	field    string
	distance float64
	logger   logger.Logger
}

func NewClient(http *httpclient.Client, opts Options, log logger.Logger) *Client {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.UploadField == "" {
		opts.UploadField = DefaultUploadField
	}
	if opts.CaptureDistanceCm <= 0 {
		opts.CaptureDistanceCm = DefaultCaptureDistanceCm
	}
	return &Client{
		http:     http,
		path:     opts.Path,
		field:    opts.UploadField,
		distance: opts.CaptureDistanceCm,
		logger:   log.Named("scan"),
	}
}

// Scan uploads img with the capture distance hint and returns the
// normalized measurements. A distance <= 0 uses the configured default.
func (c *Client) Scan(ctx context.Context, img models.SelectedImage, distanceCm float64) (models.HandMetrics, error) {
	if img.Empty() {
		return models.HandMetrics{}, errors.NewEmptySelectionError()
	}
	if distanceCm <= 0 {
		distanceCm = c.distance
	}

	fileName := img.Name
	if fileName == "" {
		fileName = "hand.jpg"
	}
	body, err := c.http.PostMultipart(ctx, Endpoint, c.path,
		httpclient.FilePart{Field: c.field, FileName: fileName, Data: img.Data},
		map[string]string{"captureDistance": strconv.FormatFloat(distanceCm, 'f', -1, 64)},
	)
	if err != nil {
		return models.HandMetrics{}, err
	}

	raw, err := decodeObject(body)
	if err != nil {
		return models.HandMetrics{}, errors.NewDecodeFailedError(Endpoint, err)
	}
	c.checkDrift(raw)

	m := normalize.Metrics(raw)
	c.logger.Debug("Hand scan completed", map[string]interface{}{
		"file":   img.Name,
		"fields": len(m.Fields()),
	})
	return m, nil
}

// checkDrift logs fields whose JSON type differs from what the endpoint
// documents. Normalization still decides what is usable.
func (c *Client) checkDrift(raw map[string]interface{}) {
	result, err := responseSchema.Validate(raw)
	if err != nil || result.Valid {
		return
	}
	c.logger.Warn("Scan response schema drift", map[string]interface{}{
		"errors": result.GetErrorMessages(),
	})
}

func decodeObject(body []byte) (map[string]interface{}, error) {
	v, err := httpclient.DecodeJSON(body)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", v)
	}
	return obj, nil
}

var nullableNumber = map[string]interface{}{"type": []interface{}{"number", "null"}}

var responseSchema = validation.MustCompile(map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"handLength":       nullableNumber,
		"handWidth":        nullableNumber,
		"handLengthMm":     nullableNumber,
		"handLengthCm":     nullableNumber,
		"handWidthMm":      nullableNumber,
		"handWidthCm":      nullableNumber,
		"hand_length_mm":   nullableNumber,
		"hand_length_cm":   nullableNumber,
		"hand_width_mm":    nullableNumber,
		"hand_width_cm":    nullableNumber,
		"fingerRatios":     map[string]interface{}{"type": []interface{}{"array", "null"}, "items": map[string]interface{}{"type": "number"}},
		"handSizeCategory": map[string]interface{}{"type": []interface{}{"string", "null"}},
	},
})
