package inline

import "image"

// MathImage is a pre-rendered formula. Width and Height are the display size in
// layout units (millimetres).
type MathImage struct {
	Pixels image.Image
	Width  float64
	Height float64
}

// NewMathImage sizes img from its pixel bounds at dpmm dots per millimetre.
func NewMathImage(img image.Image, dpmm float64) *MathImage {
	if dpmm <= 0 {
		dpmm = 1
	}
	b := img.Bounds()
	return &MathImage{
		Pixels: img,
		Width:  float64(b.Dx()) / dpmm,
		Height: float64(b.Dy()) / dpmm,
	}
}

// RenderedMath is the preprocessed form of one Math node. A nil Image means
// rendering was unavailable.
type RenderedMath struct {
	Text  string
	Image *MathImage
}

// Content maps replacement ids to preprocessed math. It is immutable once built.
type Content struct {
	rendered map[string]RenderedMath
}

// NewContent copies rendered into a new Content.
func NewContent(rendered map[string]RenderedMath) Content {
	m := make(map[string]RenderedMath, len(rendered))
	for id, item := range rendered {
		m[id] = item
	}
	return Content{rendered: m}
}

// Lookup returns the entry for id.
func (c Content) Lookup(id string) (RenderedMath, bool) {
	item, ok := c.rendered[id]
	return item, ok
}

// Len returns the number of entries.
func (c Content) Len() int { return len(c.rendered) }
