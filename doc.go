// Package anydoc converts documents between formats entirely on the client
// machine, with no server round-trip.
//
// # Quick Start
//
// Create a converter, convert a document, and close when done:
//
//	conv, err := anydoc.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	out, err := conv.Convert(ctx, anydoc.ConversionRequest{
//	    Source: anydoc.Artifact{
//	        Name:   "report.docx",
//	        Format: ".docx",
//	        Data:   docxBytes,
//	    },
//	    TargetFormat: ".rst",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(out.Name, out.Data, 0644)
//
// # Conversion Paths
//
// Requests route one of two ways, keyed on the target format:
//
//  1. Direct path: the conversion engine transcodes the source straight
//     into the target format. The engine runs inside an isolated execution
//     unit that is spawned for the request and terminated when it answers.
//  2. Image-based path (.pdf targets): the source is first normalized to
//     markdown, rendered off-screen in headless Chrome, captured as an
//     oversampled raster, scaled to fit a fixed A4 page, and embedded into
//     a single-page PDF container.
//
// The engine ships as a WebAssembly module fetched once per process and
// cached; all conversions wait for that fetch rather than re-triggering it.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := anydoc.NewConverter(
//	    anydoc.WithTimeout(2 * time.Minute),
//	    anydoc.WithModulePath("/opt/anydoc/engine.wasm"),
//	)
//
// WithEngineCommand swaps the wasm engine for a locally installed
// pandoc-compatible binary.
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to manage multiple converters:
//
//	pool := anydoc.NewConverterPool(4)
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Release(conv)
//
// # Browser Requirements
//
// The image-based path requires Chrome/Chromium. The go-rod library
// automatically downloads a managed Chromium instance on first run
// (~/.cache/rod/browser/). For containers and CI environments, set
// ROD_NO_SANDBOX=1 to disable the Chrome sandbox and ROD_BROWSER_BIN to
// specify a custom Chrome binary.
package anydoc
