// internal/pipeline/upload/controller_test.go
package upload

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"sync"
	"testing"

	"racket-advisor/internal/common/logger"
	"racket-advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

// gatedPreviewer blocks each preview until the test releases it by name.
type gatedPreviewer struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func newGatedPreviewer(names ...string) *gatedPreviewer {
	g := &gatedPreviewer{gates: make(map[string]chan struct{})}
	for _, n := range names {
		g.gates[n] = make(chan struct{})
	}
	return g
}

func (g *gatedPreviewer) release(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	close(g.gates[name])
}

func (g *gatedPreviewer) previewer() Previewer {
	return func(img models.SelectedImage) (string, error) {
		g.mu.Lock()
		gate := g.gates[img.Name]
		g.mu.Unlock()
		<-gate
		return "data:" + img.Name, nil
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// ==========================
// Selection lifecycle
// ==========================

func TestController_SelectAndClear(t *testing.T) {
	c := NewController(func(img models.SelectedImage) (string, error) {
		return "data:" + img.Name, nil
	}, logger.NewTestLogger(t))

	_, ok := c.Selected()
	assert.False(t, ok)

	c.Select(models.SelectedImage{Name: "hand.jpg", Data: []byte{1}})
	c.Wait()

	img, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "hand.jpg", img.Name)
	p, ok := c.Preview()
	require.True(t, ok)
	assert.Equal(t, "data:hand.jpg", p.DataURL)

	c.Clear()
	_, ok = c.Selected()
	assert.False(t, ok)
	_, ok = c.Preview()
	assert.False(t, ok)
}

func TestController_OutOfOrderPreviewIsDiscarded(t *testing.T) {
	gates := newGatedPreviewer("first.jpg", "second.jpg")
	c := NewController(gates.previewer(), logger.NewTestLogger(t))

	var landed []string
	var mu sync.Mutex
	c.OnPreview(func(p models.Preview) {
		mu.Lock()
		defer mu.Unlock()
		landed = append(landed, p.Name)
	})

	c.Select(models.SelectedImage{Name: "first.jpg"})
	second := c.Select(models.SelectedImage{Name: "second.jpg"})

	gates.release("second.jpg")
	gates.release("first.jpg")
	c.Wait()

	p, ok := c.Preview()
	require.True(t, ok)
	assert.Equal(t, "second.jpg", p.Name)
	assert.Equal(t, second, p.Generation)
	assert.Equal(t, []string{"second.jpg"}, landed)
}

func TestController_ClearSupersedesInFlightPreview(t *testing.T) {
	gates := newGatedPreviewer("hand.jpg")
	c := NewController(gates.previewer(), logger.NewTestLogger(t))

	c.Select(models.SelectedImage{Name: "hand.jpg"})
	c.Clear()
	gates.release("hand.jpg")
	c.Wait()

	_, ok := c.Preview()
	assert.False(t, ok)
}

func TestController_UndecodableImageHasNoPreview(t *testing.T) {
	c := NewController(ThumbnailPreviewer(64), logger.NewTestLogger(t))

	c.Select(models.SelectedImage{Name: "notes.txt", Data: []byte("not an image")})
	c.Wait()

	_, ok := c.Selected()
	assert.True(t, ok)
	_, ok = c.Preview()
	assert.False(t, ok)
}

// ==========================
// Thumbnail previewer
// ==========================

func TestThumbnailPreviewer(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxSize      int
		wantW, wantH int
	}{
		{"large image is fitted", 640, 320, 160, 160, 80},
		{"small image keeps size", 40, 30, 160, 40, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preview := ThumbnailPreviewer(tt.maxSize)
			dataURL, err := preview(models.SelectedImage{Name: "hand.png", Data: pngBytes(t, tt.w, tt.h)})
			require.NoError(t, err)

			const prefix = "data:image/jpeg;base64,"
			require.True(t, strings.HasPrefix(dataURL, prefix))
			raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
			require.NoError(t, err)

			cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("%dx%d", tt.wantW, tt.wantH), fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
		})
	}
}
