// internal/pipeline/scan/client_test.go
package scan

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"racket-advisor/internal/common/errors"
	httpclient "racket-advisor/internal/common/http"
	"racket-advisor/internal/common/logger"
	"racket-advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestClient(t *testing.T, baseURL string, opts Options) *Client {
	log := logger.NewTestLogger(t)
	return NewClient(httpclient.NewClient(httpclient.Options{BaseURL: baseURL}, log), opts, log)
}

func testImage() models.SelectedImage {
	return models.SelectedImage{Name: "hand.jpg", Data: []byte{0xff, 0xd8, 0xff}}
}

// ==========================
// Request shape
// ==========================

func TestScan_PostsImageAndDistance(t *testing.T) {
	tests := []struct {
		name         string
		opts         Options
		distance     float64
		wantField    string
		wantDistance string
	}{
		{"defaults", Options{}, 0, "file", "30"},
		{"explicit distance", Options{}, 42.5, "file", "42.5"},
		{"legacy field", Options{UploadField: LegacyUploadField, CaptureDistanceCm: 25}, -1, "image", "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/scan-hand", r.URL.Path)
				require.NoError(t, r.ParseMultipartForm(1<<20))

				file, header, err := r.FormFile(tt.wantField)
				require.NoError(t, err)
				defer file.Close()
				data, _ := io.ReadAll(file)

				assert.Equal(t, "hand.jpg", header.Filename)
				assert.Equal(t, testImage().Data, data)
				assert.Equal(t, tt.wantDistance, r.FormValue("captureDistance"))
				w.Write([]byte(`{"handLength":70.4}`))
			}))
			defer server.Close()

			m, err := createTestClient(t, server.URL, tt.opts).Scan(context.Background(), testImage(), tt.distance)
			require.NoError(t, err)
			require.NotNil(t, m.HandLength)
			assert.Equal(t, 70.4, *m.HandLength)
		})
	}
}

// ==========================
// Responses
// ==========================

func TestScan_NormalizesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"handLength":70.4,"handWidth":38.2,"fingerRatios":[0.95,0.88],"hand_length_mm":"187.5","handSizeCategory":"large"}`))
	}))
	defer server.Close()

	m, err := createTestClient(t, server.URL, Options{}).Scan(context.Background(), testImage(), 30)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.95, 0.88}, m.FingerRatios)
	require.NotNil(t, m.HandLengthMm)
	assert.Equal(t, 187.5, *m.HandLengthMm)
	assert.Equal(t, models.SizeLarge, m.Category())
}

func TestScan_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode errors.ErrorCode
	}{
		{"server error", http.StatusInternalServerError, "server error", errors.ErrCodeHTTPError},
		{"not json", http.StatusOK, "<html>", errors.ErrCodeDecodeFailed},
		{"array body", http.StatusOK, "[1,2]", errors.ErrCodeDecodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := createTestClient(t, server.URL, Options{}).Scan(context.Background(), testImage(), 30)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestScan_EmptySelectionSkipsNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	_, err := createTestClient(t, server.URL, Options{}).Scan(context.Background(), models.SelectedImage{}, 30)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptySelection))
	assert.Zero(t, atomic.LoadInt32(&hits))
}
