package anydoc

import (
	"fmt"

	"github.com/avasse/go-anydoc/internal/engine"
)

// Classify maps an engine-reported error code and raw message to a
// user-facing message. Format-rejection codes are rewritten into
// direction-specific messages naming the offending format; any other code
// is surfaced as "[code] message"; an empty code passes the raw message
// through unchanged.
func Classify(code, message string, req ConversionRequest) string {
	switch code {
	case engine.CodeUnknownInputFormat:
		return fmt.Sprintf("%q is not a supported input format for documents", req.Source.Format)
	case engine.CodeUnknownOutputFormat:
		return fmt.Sprintf("%q is not a supported output format for documents", req.TargetFormat)
	case "":
		return message
	}
	return fmt.Sprintf("[%s] %s", code, message)
}

// kindForCode maps an engine error code to the error taxonomy.
func kindForCode(code string) ErrorKind {
	switch code {
	case engine.CodeUnknownInputFormat:
		return KindUnknownInputFormat
	case engine.CodeUnknownOutputFormat:
		return KindUnknownOutputFormat
	}
	return KindEngineFailure
}
