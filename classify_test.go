package anydoc

import (
	"testing"

	"github.com/avasse/go-anydoc/internal/engine"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	req := ConversionRequest{
		Source:       Artifact{Name: "img.png", Format: ".png", Data: []byte("x")},
		TargetFormat: ".rst",
	}

	tests := []struct {
		name    string
		code    string
		message string
		want    string
	}{
		{
			name: "unknown input format names the source",
			code: engine.CodeUnknownInputFormat,
			want: `".png" is not a supported input format for documents`,
		},
		{
			name: "unknown output format names the target",
			code: engine.CodeUnknownOutputFormat,
			want: `".rst" is not a supported output format for documents`,
		},
		{
			name:    "other code is bracketed",
			code:    "parse-error",
			message: "unexpected token at line 3",
			want:    "[parse-error] unexpected token at line 3",
		},
		{
			name:    "no code passes message through",
			code:    "",
			message: "something broke",
			want:    "something broke",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Classify(tt.code, tt.message, req); got != tt.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.code, tt.message, got, tt.want)
			}
		})
	}
}

func TestKindForCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want ErrorKind
	}{
		{code: engine.CodeUnknownInputFormat, want: KindUnknownInputFormat},
		{code: engine.CodeUnknownOutputFormat, want: KindUnknownOutputFormat},
		{code: "oom", want: KindEngineFailure},
		{code: "", want: KindEngineFailure},
	}

	for _, tt := range tests {
		if got := kindForCode(tt.code); got != tt.want {
			t.Errorf("kindForCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestErrorKindString(t *testing.T) {
	t.Parallel()

	kinds := []ErrorKind{
		KindUnknownInputFormat,
		KindUnknownOutputFormat,
		KindEngineFailure,
		KindRenderFailure,
		KindUnsupportedDirection,
	}
	for _, k := range kinds {
		if k.String() == "unknown" {
			t.Errorf("ErrorKind(%d).String() has no name", k)
		}
	}
	if ErrorKind(99).String() != "unknown" {
		t.Error("out-of-range kind should stringify as unknown")
	}
}
