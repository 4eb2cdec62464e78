package anydoc

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptySource    = errors.New("source content cannot be empty")
	ErrEmptyTarget    = errors.New("target format cannot be empty")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrCapture        = errors.New("raster capture failed")
	ErrAssemble       = errors.New("page assembly failed")
)

// ErrorKind classifies a failed conversion outcome. It is only ever
// attached to failures, never to successful results.
type ErrorKind int

const (
	// KindUnknownInputFormat means the engine or registry rejected the
	// source format.
	KindUnknownInputFormat ErrorKind = iota + 1

	// KindUnknownOutputFormat means the engine or registry rejected the
	// target format.
	KindUnknownOutputFormat

	// KindEngineFailure covers any other engine-reported error; the raw
	// code is preserved on the ConversionError.
	KindEngineFailure

	// KindRenderFailure means off-screen rendering, raster capture, or page
	// assembly did not produce usable output.
	KindRenderFailure

	// KindUnsupportedDirection means the requested input/output combination
	// is not permitted, e.g. image-container export from a format the
	// engine cannot read.
	KindUnsupportedDirection
)

// String returns the kind's name for logs and test failures.
func (k ErrorKind) String() string {
	switch k {
	case KindUnknownInputFormat:
		return "unknown input format"
	case KindUnknownOutputFormat:
		return "unknown output format"
	case KindEngineFailure:
		return "engine failure"
	case KindRenderFailure:
		return "render failure"
	case KindUnsupportedDirection:
		return "unsupported direction"
	}
	return "unknown"
}

// ConversionError is the single failure value surfaced by Convert. Message
// is human-readable and produced by Classify; Code carries the raw engine
// error code for engine failures.
type ConversionError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *ConversionError) Error() string {
	return e.Message
}
