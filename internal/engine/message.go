// Package engine manages the isolated execution units that host the
// compiled conversion engine module. Each conversion request gets a fresh
// unit: a goroutine reachable only through bounded message channels. The
// engine module bytes are fetched once per process and cached; the module
// itself stays an opaque collaborator behind the Runtime interface.
package engine

// Message is the protocol unit exchanged with an execution unit. It is a
// closed sum type: the unexported marker method restricts implementations
// to this package so receivers can switch exhaustively instead of handling
// loosely-typed payloads.
type Message interface {
	message()
}

// Load carries the compiled engine module bytes to a fresh execution unit.
// Host to engine; answered by Loaded or Fail.
type Load struct {
	Module []byte
}

// Loaded acknowledges module instantiation. Engine to host.
type Loaded struct{}

// Convert asks the engine to transcode Source into the target format.
// From identifies the source format for runtimes that cannot infer it from
// the payload. Host to engine; answered by exactly one Result or Fail.
type Convert struct {
	Target string
	From   string
	Source []byte
}

// Result carries the engine's output bytes. Archive marks output that is
// itself a multi-file container. Engine to host.
type Result struct {
	Data    []byte
	Archive bool
}

// Fail reports an engine error, optionally tagged with a protocol code.
// Engine to host.
type Fail struct {
	Code    string
	Message string
}

func (Load) message()    {}
func (Loaded) message()  {}
func (Convert) message() {}
func (Result) message()  {}
func (Fail) message()    {}

// Error codes the engine reports for unrecognized formats. Any other code
// is surfaced verbatim.
const (
	CodeUnknownInputFormat  = "unknown-input-format"
	CodeUnknownOutputFormat = "unknown-output-format"
)

// Error is an engine-reported conversion failure, preserved for the
// caller's classifier.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return "[" + e.Code + "] " + e.Message
}
