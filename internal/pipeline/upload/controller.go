// Package upload owns the currently selected image and its preview.
package upload

import (
	"sync"

	"racket-advisor/internal/common/logger"
	"racket-advisor/internal/models"
)

// Controller holds at most one selected image. Every Select or Clear bumps
// a generation counter; a preview that finishes after its generation was
// superseded is dropped.
type Controller struct {
	mu         sync.Mutex
	selected   *models.SelectedImage
	preview    *models.Preview
	generation uint64
	onPreview  func(models.Preview)

	previewer Previewer
	pending   sync.WaitGroup
	logger    logger.Logger
}

func NewController(previewer Previewer, log logger.Logger) *Controller {
	if previewer == nil {
		previewer = ThumbnailPreviewer(DefaultPreviewMaxSize)
	}
	return &Controller{
		previewer: previewer,
		logger:    log.Named("upload"),
	}
}

// OnPreview registers a callback invoked when a current preview lands.
func (c *Controller) OnPreview(fn func(models.Preview)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPreview = fn
}

// Select replaces the current image and starts building its preview in the
// background. It never fails and returns the new generation.
func (c *Controller) Select(img models.SelectedImage) uint64 {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	selected := img
	c.selected = &selected
	c.preview = nil
	c.mu.Unlock()

	c.pending.Add(1)
	go c.buildPreview(gen, selected)
	return gen
}

// Clear drops the selection and any preview, including ones still in flight.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.selected = nil
	c.preview = nil
}

// Selected returns the current image, if any.
func (c *Controller) Selected() (models.SelectedImage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return models.SelectedImage{}, false
	}
	return *c.selected, true
}

// Preview returns the preview of the current image once it is ready.
func (c *Controller) Preview() (models.Preview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.preview == nil {
		return models.Preview{}, false
	}
	return *c.preview, true
}

// Generation is the counter value of the latest Select or Clear.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Wait blocks until every started preview has finished or been dropped.
func (c *Controller) Wait() {
	c.pending.Wait()
}

func (c *Controller) buildPreview(gen uint64, img models.SelectedImage) {
	defer c.pending.Done()

	dataURL, err := c.previewer(img)
	if err != nil {
		c.logger.Debug("No preview for selected image", map[string]interface{}{
			"name":  img.Name,
			"error": err.Error(),
		})
		return
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("Discarding superseded preview", map[string]interface{}{
			"name":       img.Name,
			"generation": gen,
		})
		return
	}
	p := models.Preview{Name: img.Name, DataURL: dataURL, Generation: gen}
	c.preview = &p
	notify := c.onPreview
	c.mu.Unlock()

	if notify != nil {
		notify(p)
	}
}
