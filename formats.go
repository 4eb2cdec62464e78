package anydoc

import "strings"

// Well-known format identifiers.
const (
	// FormatMarkdown is the intermediate markup format: the universal
	// midpoint between arbitrary document formats and image-based export.
	FormatMarkdown = ".md"

	// FormatPDF is the paginated image container. Output only, never input.
	FormatPDF = ".pdf"

	// FormatZip is the extension used when the engine reports that its
	// output is itself a multi-file container.
	FormatZip = ".zip"
)

// FormatDescriptor declares a format's conversion capabilities. The set of
// descriptors is fixed at process start and never mutated.
type FormatDescriptor struct {
	Identifier string
	Input      bool
	Output     bool
}

// formatTable is the fixed capability table. Identifiers are unique.
// A format absent from the table is unsupported in both directions.
var formatTable = []FormatDescriptor{
	{Identifier: FormatMarkdown, Input: true, Output: true},
	{Identifier: ".docx", Input: true, Output: true},
	{Identifier: ".odt", Input: true, Output: true},
	{Identifier: ".html", Input: true, Output: true},
	{Identifier: ".rtf", Input: true, Output: true},
	{Identifier: ".csv", Input: true, Output: true},
	{Identifier: ".json", Input: true, Output: true},
	{Identifier: ".epub", Input: true, Output: true},
	{Identifier: ".rst", Input: true, Output: true},
	{Identifier: ".tex", Input: true, Output: true},
	{Identifier: FormatPDF, Input: false, Output: true},
}

// InputSupported reports whether format may be used as a conversion source.
func InputSupported(format string) bool {
	d, ok := lookupFormat(format)
	return ok && d.Input
}

// OutputSupported reports whether format may be used as a conversion target.
func OutputSupported(format string) bool {
	d, ok := lookupFormat(format)
	return ok && d.Output
}

// Formats returns the supported formats in declaration order.
// The returned slice is a copy; callers may not mutate the table.
func Formats() []FormatDescriptor {
	out := make([]FormatDescriptor, len(formatTable))
	copy(out, formatTable)
	return out
}

func lookupFormat(format string) (FormatDescriptor, bool) {
	format = NormalizeFormat(format)
	for _, d := range formatTable {
		if d.Identifier == format {
			return d, true
		}
	}
	return FormatDescriptor{}, false
}

// NormalizeFormat lowercases a format identifier and ensures the leading
// dot, so "MD", "md" and ".md" all name the same format.
func NormalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return ""
	}
	if !strings.HasPrefix(format, ".") {
		format = "." + format
	}
	return format
}
