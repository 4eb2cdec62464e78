package anydoc

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/avasse/go-anydoc/internal/engine"
	"github.com/avasse/go-anydoc/internal/pipeline"
)

// conversionEngine abstracts the execution-unit engine client to allow
// injection in tests.
type conversionEngine interface {
	Initialize(ctx context.Context) error
	Convert(ctx context.Context, source []byte, sourceFormat, targetFormat string) (engine.Result, error)
	Close() error
}

// Compile-time interface implementation checks.
var (
	_ conversionEngine       = (*engine.Client)(nil)
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ renderSurface          = (*rodSurface)(nil)
	_ pageAssembler          = fpdfAssembler{}
)

// Converter orchestrates document conversion. It selects the direct engine
// path or the two-stage image-based path based on the requested target
// format. Create with NewConverter, use Convert per request, and Close when
// done.
type Converter struct {
	cfg      converterConfig
	engine   conversionEngine
	surface  renderSurface
	exporter *imageExporter
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithModulePath).
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:   defaultTimeout,
			moduleURL: DefaultModuleURL,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	// Create the engine client if not injected (e.g., by tests)
	if c.engine == nil {
		c.engine = engine.NewClient(c.engineRuntime(), c.moduleSource())
	}

	if c.surface == nil {
		c.surface = newRodSurface(c.cfg.timeout)
	}

	c.exporter = &imageExporter{
		engine:    c.engine,
		html:      pipeline.NewGoldmarkConverter(),
		surface:   c.surface,
		assembler: fpdfAssembler{},
	}

	return c, nil
}

// engineRuntime picks the execution-unit runtime from configuration.
func (c *Converter) engineRuntime() engine.Runtime {
	if c.cfg.engineCommand != "" {
		return engine.NewExecRuntime(c.cfg.engineCommand)
	}
	return engine.NewWasmRuntime()
}

// moduleSource picks the engine module source from configuration. The
// subprocess runtime needs no module bytes.
func (c *Converter) moduleSource() engine.ModuleSource {
	switch {
	case c.cfg.engineCommand != "":
		return engine.StaticSource(nil)
	case c.cfg.modulePath != "":
		return engine.FileSource(c.cfg.modulePath)
	}
	return engine.HTTPSource(c.cfg.moduleURL)
}

// Initialize triggers the one-time engine module fetch and waits for
// readiness. Calling it is optional: Convert waits for readiness on its
// own. Idempotent; concurrent calls share one fetch.
func (c *Converter) Initialize(ctx context.Context) error {
	return c.engine.Initialize(ctx)
}

// Convert routes the request to the direct engine path or the image-based
// export path and returns the resulting artifact. All failures surface as a
// *ConversionError carrying a classified, human-readable message; resources
// acquired for the request are released before the failure is returned.
func (c *Converter) Convert(ctx context.Context, req ConversionRequest) (*Artifact, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	target := NormalizeFormat(req.TargetFormat)

	if target == FormatPDF {
		data, err := c.exporter.Export(ctx, req)
		if err != nil {
			return nil, c.wrapFailure(err, req)
		}
		return &Artifact{
			Name:   replaceExt(req.Source.Name, FormatPDF),
			Format: FormatPDF,
			Data:   data,
		}, nil
	}

	// Direct path: the registry gates both directions before the engine is
	// ever invoked.
	if !InputSupported(req.Source.Format) {
		return nil, &ConversionError{
			Kind:    KindUnknownInputFormat,
			Message: Classify(engine.CodeUnknownInputFormat, "", req),
		}
	}
	if !OutputSupported(target) {
		return nil, &ConversionError{
			Kind:    KindUnknownOutputFormat,
			Message: Classify(engine.CodeUnknownOutputFormat, "", req),
		}
	}

	res, err := c.engine.Convert(ctx, req.Source.Data, NormalizeFormat(req.Source.Format), target)
	if err != nil {
		return nil, c.wrapFailure(err, req)
	}

	// The engine flags multi-file container output, which overrides the
	// requested extension.
	outFormat := target
	if res.Archive {
		outFormat = FormatZip
	}

	return &Artifact{
		Name:   replaceExt(req.Source.Name, outFormat),
		Format: outFormat,
		Data:   res.Data,
	}, nil
}

// Close releases resources (headless Chrome browser, engine runtime).
func (c *Converter) Close() error {
	var errs []error
	if c.surface != nil {
		errs = append(errs, c.surface.Close())
	}
	if c.engine != nil {
		errs = append(errs, c.engine.Close())
	}
	return errors.Join(errs...)
}

// wrapFailure converts internal errors into the single ConversionError
// failure value. Engine-reported errors go through the classifier; render,
// capture, and assembly failures map to the render-failure kind; anything
// else (context errors) passes through untouched.
func (c *Converter) wrapFailure(err error, req ConversionRequest) error {
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		return err
	}

	var engErr *engine.Error
	if errors.As(err, &engErr) {
		return &ConversionError{
			Kind:    kindForCode(engErr.Code),
			Code:    engErr.Code,
			Message: Classify(engErr.Code, engErr.Message, req),
		}
	}

	if errors.Is(err, ErrBrowserConnect) ||
		errors.Is(err, ErrPageCreate) ||
		errors.Is(err, ErrPageLoad) ||
		errors.Is(err, ErrCapture) ||
		errors.Is(err, ErrAssemble) {
		return &ConversionError{Kind: KindRenderFailure, Message: err.Error()}
	}

	return err
}

// validateRequest checks that required fields are present.
//
// This is a trust boundary for direct library users who build requests
// manually; the CLI validates earlier at argument-parsing time. Both paths
// converge here.
func validateRequest(req ConversionRequest) error {
	if len(req.Source.Data) == 0 {
		return ErrEmptySource
	}
	if strings.TrimSpace(req.TargetFormat) == "" {
		return ErrEmptyTarget
	}
	return nil
}

// replaceExt swaps the extension of a display name for the output format.
// Nameless sources get a generic name so the artifact is always addressable.
func replaceExt(name, format string) string {
	if name == "" {
		return "document" + format
	}
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + format
}
