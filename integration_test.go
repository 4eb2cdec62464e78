//go:build integration

package anydoc

import (
	"bytes"
	"context"
	"testing"
	"time"
)

// integrationTimeout is the standard timeout for operations that launch a
// real browser.
const integrationTimeout = 60 * time.Second

// Markdown to PDF runs entirely in-process: no engine module is needed, so
// the only external dependency is a Chromium binary (rod downloads one on
// first run if none is installed).
func TestIntegrationMarkdownToPDF(t *testing.T) {
	conv, err := NewConverter(WithTimeout(integrationTimeout))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer conv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
	defer cancel()

	source := []byte(`# Integration

A paragraph with **bold** and a table.

| Format | Direction |
|--------|-----------|
| md     | both      |
| pdf    | output    |
`)

	artifact, err := conv.Convert(ctx, ConversionRequest{
		Source:       Artifact{Name: "integration.md", Format: ".md", Data: source},
		TargetFormat: ".pdf",
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if artifact.Format != FormatPDF {
		t.Errorf("artifact format = %q, want %q", artifact.Format, FormatPDF)
	}
	if !bytes.HasPrefix(artifact.Data, []byte("%PDF")) {
		t.Error("output does not start with the PDF file signature")
	}
	if len(artifact.Data) < 1024 {
		t.Errorf("suspiciously small PDF: %d bytes", len(artifact.Data))
	}
}

// Tall documents must scale to a single page instead of clipping.
func TestIntegrationTallDocumentFitsOnePage(t *testing.T) {
	conv, err := NewConverter(WithTimeout(integrationTimeout))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer conv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
	defer cancel()

	var buf bytes.Buffer
	buf.WriteString("# Long Document\n\n")
	for i := 0; i < 200; i++ {
		buf.WriteString("A line of body text that pads the document height.\n\n")
	}

	artifact, err := conv.Convert(ctx, ConversionRequest{
		Source:       Artifact{Name: "long.md", Format: ".md", Data: buf.Bytes()},
		TargetFormat: ".pdf",
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if !bytes.HasPrefix(artifact.Data, []byte("%PDF")) {
		t.Error("output does not start with the PDF file signature")
	}
}
