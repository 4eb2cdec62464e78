// Package pipeline converts the intermediate markup into the fixed-style
// HTML document the rasterization path renders off-screen.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// pageTemplate wraps Goldmark's fragment output in a complete HTML5
// document carrying the fixed render style.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Document</title>
<style>
%s
</style>
</head>
<body>
<main>
%s
</main>
</body>
</html>`

// renderStyle is the fixed style template for off-screen rendering: fixed
// font stack, fixed body width, and wrap rules that prevent horizontal
// overflow so the capture never exceeds the virtual viewport width.
const renderStyle = `:root { color-scheme: light; }
body {
  margin: 0;
  padding: 24px;
  font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
  font-size: 14px;
  line-height: 1.5;
  color: #1a1a1a;
  background: #ffffff;
}
main { width: 730px; overflow-wrap: break-word; word-break: break-word; }
pre { white-space: pre-wrap; background: #f6f6f6; padding: 8px; }
code { font-family: "SF Mono", Consolas, Menlo, monospace; font-size: 13px; }
img, table { max-width: 100%; }
table { border-collapse: collapse; }
th, td { border: 1px solid #cccccc; padding: 4px 8px; }
blockquote { margin: 0 0 0 8px; padding-left: 12px; border-left: 3px solid #dddddd; color: #555555; }`

// HTMLConverter abstracts intermediate markup to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts the intermediate markup to HTML using goldmark
// (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and
// inline syntax highlighting (no external stylesheet to load, which keeps
// the off-screen page self-contained).
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.TabWidth(4),
					chromahtml.WithClasses(false), // Inline styles keep the off-screen page self-contained
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // Treat newlines as <br>
			html.WithXHTML(),     // Self-closing tags
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts intermediate markup to a standalone styled HTML5
// document. Supports context cancellation via goroutine + select pattern
// since Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(pageTemplate, renderStyle, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
