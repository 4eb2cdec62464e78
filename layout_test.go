package anydoc

import (
	"math"
	"testing"
)

func TestFitToPageTallContent(t *testing.T) {
	t.Parallel()

	// Tall capture: content ratio 0.5 is below the page ratio (~0.706), so
	// the fit is height-bound, then the horizontal margin is carved out of
	// the width and the height recomputed from the source aspect ratio.
	got := FitToPage(1000, 2000, 595, 842, 40)

	if got.RenderHeight != 682 {
		t.Errorf("RenderHeight = %v, want 682", got.RenderHeight)
	}
	if got.RenderWidth != 341 {
		t.Errorf("RenderWidth = %v, want 341", got.RenderWidth)
	}
	if got.MarginX != 40 || got.MarginY != 40 {
		t.Errorf("margins = (%v, %v), want (40, 40)", got.MarginX, got.MarginY)
	}
}

func TestFitToPageWideContent(t *testing.T) {
	t.Parallel()

	// Wide capture: content ratio 2.0 exceeds the page ratio, so the fit is
	// width-bound before the margin adjustment.
	got := FitToPage(2000, 1000, 595, 842, 40)

	wantWidth := 595.0 - 80.0
	if math.Abs(got.RenderWidth-wantWidth) > 1e-9 {
		t.Errorf("RenderWidth = %v, want %v", got.RenderWidth, wantWidth)
	}
	wantHeight := wantWidth / 2
	if math.Abs(got.RenderHeight-wantHeight) > 1e-9 {
		t.Errorf("RenderHeight = %v, want %v", got.RenderHeight, wantHeight)
	}
}

func TestFitToPagePreservesAspectRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cw   float64
		ch   float64
	}{
		{name: "square", cw: 1200, ch: 1200},
		{name: "tall", cw: 800, ch: 4000},
		{name: "wide", cw: 4000, ch: 600},
		{name: "near page ratio", cw: 1190, ch: 1684},
		{name: "tiny", cw: 3, ch: 7},
		{name: "huge", cw: 123456, ch: 98765},
	}

	const epsilon = 1e-6

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FitToPage(tt.cw, tt.ch, pageWidthPt, pageHeightPt, pageMarginPt)

			if got.RenderWidth <= 0 || got.RenderHeight <= 0 {
				t.Fatalf("degenerate transform: %+v", got)
			}

			want := tt.cw / tt.ch
			ratio := got.RenderWidth / got.RenderHeight
			if math.Abs(ratio-want) > epsilon {
				t.Errorf("aspect ratio = %v, want %v (diff %v)", ratio, want, math.Abs(ratio-want))
			}
		})
	}
}

func TestFitToPageNeverExceedsPrintableWidth(t *testing.T) {
	t.Parallel()

	for _, dims := range [][2]float64{{100, 100}, {5000, 100}, {100, 5000}, {1920, 1080}} {
		got := FitToPage(dims[0], dims[1], pageWidthPt, pageHeightPt, pageMarginPt)
		if got.RenderWidth+2*pageMarginPt > pageWidthPt+1e-9 {
			t.Errorf("capture %vx%v: width %v overflows printable area", dims[0], dims[1], got.RenderWidth)
		}
	}
}

func TestFitToPageDegenerateInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cw   float64
		ch   float64
	}{
		{name: "zero width", cw: 0, ch: 100},
		{name: "zero height", cw: 100, ch: 0},
		{name: "negative width", cw: -5, ch: 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FitToPage(tt.cw, tt.ch, pageWidthPt, pageHeightPt, pageMarginPt)
			if got != (LayoutTransform{}) {
				t.Errorf("FitToPage(%v, %v, ...) = %+v, want zero transform", tt.cw, tt.ch, got)
			}
		})
	}
}
