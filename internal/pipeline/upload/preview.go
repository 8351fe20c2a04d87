// internal/pipeline/upload/preview.go
package upload

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"racket-advisor/internal/models"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const DefaultPreviewMaxSize = 320

// Previewer renders a selected image into a data URL suitable for an <img>
// tag.
type Previewer func(img models.SelectedImage) (string, error)

// ThumbnailPreviewer decodes the image with any registered decoder (JPEG,
// PNG, GIF, WebP), fits it into a maxSize square and re-encodes it as JPEG.
func ThumbnailPreviewer(maxSize int) Previewer {
	if maxSize <= 0 {
		maxSize = DefaultPreviewMaxSize
	}
	return func(img models.SelectedImage) (string, error) {
		decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", img.Name, err)
		}

		b := decoded.Bounds()
		if b.Dx() > maxSize || b.Dy() > maxSize {
			decoded = imaging.Fit(decoded, maxSize, maxSize, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, decoded, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
			return "", fmt.Errorf("encode preview: %w", err)
		}
		return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
	}
}
