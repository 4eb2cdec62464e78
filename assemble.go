package anydoc

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// pageAssembler abstracts the output page container: it reports the page
// dimensions the layout transform targets and serializes one placed raster
// into a binary document.
type pageAssembler interface {
	PageSize() (width, height float64)
	Assemble(img *rasterImage, t LayoutTransform) ([]byte, error)
}

// fpdfAssembler builds a single-page A4 portrait PDF (point unit) with the
// captured raster placed at the transform's offset and dimensions.
type fpdfAssembler struct{}

var _ pageAssembler = fpdfAssembler{}

// PageSize returns the A4 portrait page dimensions in points.
func (fpdfAssembler) PageSize() (float64, float64) {
	return pageWidthPt, pageHeightPt
}

// Assemble creates the page container, places the raster, and serializes
// the container to bytes.
func (fpdfAssembler) Assemble(img *rasterImage, t LayoutTransform) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("capture", opts, bytes.NewReader(img.PNG))
	doc.ImageOptions("capture", t.MarginX, t.MarginY, t.RenderWidth, t.RenderHeight, false, opts, 0, "")

	if doc.Err() {
		return nil, fmt.Errorf("%w: %v", ErrAssemble, doc.Error())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssemble, err)
	}
	return buf.Bytes(), nil
}
