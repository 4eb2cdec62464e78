package anydoc

// Output page geometry in points (A4 portrait, matching the assembler).
const (
	pageWidthPt  = 595.28
	pageHeightPt = 841.89
	pageMarginPt = 40.0
)

// LayoutTransform maps a captured raster onto a fixed output page. Derived
// per rasterization call and discarded afterwards.
type LayoutTransform struct {
	RenderWidth  float64
	RenderHeight float64
	MarginX      float64
	MarginY      float64
}

// FitToPage computes the transform that places a captured raster of
// captureWidth x captureHeight pixels onto a pageWidth x pageHeight page
// while preserving the raster's aspect ratio.
//
// The fit runs in two passes: first the raster is scaled to the page along
// its dominant axis, then the horizontal margin is carved out of the fitted
// width and the height recomputed from the source aspect ratio. Vertical
// whitespace is therefore whatever the recomputed height leaves over rather
// than a fixed margin. Content taller than one page after scaling is
// compressed to fit, never split across pages.
//
// Capture and page dimensions must be positive; the zero transform is
// returned otherwise.
func FitToPage(captureWidth, captureHeight, pageWidth, pageHeight, margin float64) LayoutTransform {
	if captureWidth <= 0 || captureHeight <= 0 || pageWidth <= 0 || pageHeight <= 0 {
		return LayoutTransform{}
	}

	captureRatio := captureWidth / captureHeight
	pageRatio := pageWidth / pageHeight

	var w, h float64
	if captureRatio > pageRatio {
		// Content relatively wider than the page: width-bound.
		w = pageWidth
		h = w / captureRatio
	} else {
		h = pageHeight
		w = h * captureRatio
	}

	w -= 2 * margin
	h = w * captureHeight / captureWidth

	return LayoutTransform{
		RenderWidth:  w,
		RenderHeight: h,
		MarginX:      margin,
		MarginY:      margin,
	}
}
