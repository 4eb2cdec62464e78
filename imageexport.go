package anydoc

import (
	"context"
	"fmt"

	"github.com/avasse/go-anydoc/internal/pipeline"
)

// imageExporter drives the image-based export path: normalize the source to
// the intermediate markup, render it off-screen, capture the raster, fit it
// to the page, and assemble the output container.
type imageExporter struct {
	engine    conversionEngine
	html      pipeline.HTMLConverter
	surface   renderSurface
	assembler pageAssembler
}

// Export runs the full rasterization sequence for one request.
func (e *imageExporter) Export(ctx context.Context, req ConversionRequest) ([]byte, error) {
	markup, err := e.normalize(ctx, req)
	if err != nil {
		return nil, err
	}

	htmlContent, err := e.html.ToHTML(ctx, markup)
	if err != nil {
		return nil, fmt.Errorf("rendering intermediate markup: %w", err)
	}

	img, err := e.surface.Capture(ctx, htmlContent)
	if err != nil {
		return nil, err
	}

	pageW, pageH := e.assembler.PageSize()
	transform := FitToPage(float64(img.Width), float64(img.Height), pageW, pageH, pageMarginPt)

	return e.assembler.Assemble(img, transform)
}

// normalize produces the intermediate markup text. A markdown source is
// read directly, with no engine invocation; any other engine-readable
// source goes through the engine first.
func (e *imageExporter) normalize(ctx context.Context, req ConversionRequest) (string, error) {
	format := NormalizeFormat(req.Source.Format)
	if format == FormatMarkdown {
		return string(req.Source.Data), nil
	}

	if !InputSupported(format) {
		return "", &ConversionError{
			Kind:    KindUnsupportedDirection,
			Message: fmt.Sprintf("%q is not a supported input format for documents", req.Source.Format),
		}
	}

	res, err := e.engine.Convert(ctx, req.Source.Data, format, FormatMarkdown)
	if err != nil {
		return "", err
	}
	return string(res.Data), nil
}
