// internal/common/http/client_test.go
package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"racket-advisor/internal/common/errors"
	"racket-advisor/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestClient(t *testing.T, baseURL string, retries int) *Client {
	return NewClient(Options{
		BaseURL:    baseURL,
		MaxRetries: retries,
		Backoff:    time.Millisecond,
	}, logger.NewTestLogger(t))
}

// ==========================
// Send / status mapping
// ==========================

func TestClient_PostJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/recommend-rackets", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"handLength":70.4}`, string(body))
		w.Write([]byte(`{"rackets":[]}`))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL+"/", 0)
	body, err := client.PostJSON(context.Background(), "recommend", "/recommend-rackets", map[string]interface{}{"handLength": 70.4})

	require.NoError(t, err)
	assert.JSONEq(t, `{"rackets":[]}`, string(body))
}

func TestClient_HTTPErrorCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("server error"))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL, 0)
	_, err := client.PostJSON(context.Background(), "scan", "/scan-hand", map[string]string{})

	require.Error(t, err)
	stdErr, ok := errors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeHTTPError, stdErr.Code)
	assert.Equal(t, 500, stdErr.StatusCode)
	assert.Equal(t, "server error", stdErr.Body)
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client := createTestClient(t, addr, 0)
	_, err := client.Get(context.Background(), "admin", "/admin/rackets", nil)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNetworkFailure))
}

// ==========================
// Retry policy
// ==========================

func TestClient_RetriesRetryableStatus(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL, 2)
	_, err := client.PostJSON(context.Background(), "recommend", "/recommend-rackets", map[string]string{})

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := createTestClient(t, server.URL, 3)
	_, err := client.PostJSON(context.Background(), "recommend", "/recommend-rackets", map[string]string{})

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClient_DefaultIsSingleAttempt(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := createTestClient(t, server.URL, 0)
	_, err := client.Delete(context.Background(), "admin", "/admin/rackets/1")

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

// ==========================
// Multipart and query encoding
// ==========================

func TestClient_PostMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)

		assert.Equal(t, "hand.jpg", header.Filename)
		assert.Equal(t, []byte{0xff, 0xd8, 0x01}, data)
		assert.Equal(t, "30", r.FormValue("captureDistance"))
		w.Write([]byte(`{"handLength":70}`))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL, 0)
	body, err := client.PostMultipart(context.Background(), "scan", "/scan-hand",
		FilePart{Field: "file", FileName: "hand.jpg", Data: []byte{0xff, 0xd8, 0x01}},
		map[string]string{"captureDistance": "30"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"handLength":70}`, string(body))
}

func TestClient_GetWithQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/surveys", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL, 0)
	_, err := client.Get(context.Background(), "admin", "admin/surveys", url.Values{"limit": {"25"}})
	require.NoError(t, err)
}

func TestClient_InvalidPayload(t *testing.T) {
	client := createTestClient(t, "http://127.0.0.1:1", 0)
	_, err := client.PostJSON(context.Background(), "admin", "/admin/rackets", map[string]interface{}{"bad": make(chan int)})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidPayload))
}
