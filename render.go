package anydoc

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/avasse/go-anydoc/internal/fileutil"
)

// renderSurface abstracts the off-screen render and raster capture to
// enable testing without a browser.
type renderSurface interface {
	Capture(ctx context.Context, htmlContent string) (*rasterImage, error)
	Close() error
}

// rasterImage is a captured raster surface with its pixel dimensions.
type rasterImage struct {
	PNG    []byte
	Width  int
	Height int
}

// Fixed virtual viewport for off-screen rendering (CSS pixels) and the
// oversampling factor applied at capture time for output sharpness.
const (
	viewportWidth  = 794
	viewportHeight = 1123
	captureScale   = 2
)

// rodSurface renders HTML off-screen in headless Chrome via go-rod and
// captures it as a full-page PNG. Rod automatically downloads Chromium on
// first run if not found.
type rodSurface struct {
	browser *rod.Browser
	timeout time.Duration
}

var _ renderSurface = (*rodSurface)(nil)

// newRodSurface creates a rodSurface with the given timeout.
func newRodSurface(timeout time.Duration) *rodSurface {
	return &rodSurface{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *rodSurface) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *rodSurface) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// Capture loads htmlContent in an invisible page sized to the fixed virtual
// viewport, waits for the load signal, and rasterizes the full page at the
// oversampling factor. The page is closed on every exit path.
func (r *rodSurface) Capture(ctx context.Context, htmlContent string) (*rasterImage, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	err = (&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: captureScale,
		Mobile:            false,
	}).Call(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}

	return newRasterImage(data)
}

// newRasterImage wraps encoded PNG bytes with their pixel dimensions.
// Only the header is decoded; the pixel data stays opaque.
func newRasterImage(data []byte) (*rasterImage, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding capture header: %v", ErrCapture, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: capture has empty dimensions", ErrCapture)
	}
	return &rasterImage{PNG: data, Width: cfg.Width, Height: cfg.Height}, nil
}
