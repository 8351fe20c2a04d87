// internal/models/image.go
package models

// SelectedImage is the file the user picked for scanning. Data is passed to
// the scan endpoint untouched; its content is never validated.
type SelectedImage struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"-"`
}

// Empty reports whether nothing was selected.
func (i SelectedImage) Empty() bool {
	return i.Name == "" && len(i.Data) == 0
}

// Preview is the locally generated thumbnail of a SelectedImage.
type Preview struct {
	Name       string `json:"name"`
	DataURL    string `json:"dataUrl"`
	Generation uint64 `json:"generation"`
}
