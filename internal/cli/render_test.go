package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const testDoc = `{
  "type": "excalidraw",
  "version": 2,
  "elements": [
    {"id": "a", "type": "rectangle", "x": 0, "y": 0, "width": 100, "height": 50, "seed": 42}
  ]
}`

func quietContext() context.Context {
	return withLogger(context.Background(), newLogger(io.Discard, log.ErrorLevel))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output string
		input  string
		format string
		want   string
	}{
		{"", "diagram.excalidraw", "svg", "diagram.svg"},
		{"", "diagram.excalidraw", "png", "diagram.png"},
		{"", "no-extension", "svg", "no-extension.svg"},
		{"custom.svg", "diagram.excalidraw", "svg", "custom.svg"},
		{"out/render.png", "diagram.excalidraw", "png", "out/render.png"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.format, got, tt.want)
		}
	}
}

func TestRunRenderSVG(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "diagram.excalidraw")
	if err := os.WriteFile(input, []byte(testDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := renderOpts{
		output:  filepath.Join(dir, "out.svg"),
		format:  "svg",
		noCache: true,
	}
	if err := runRender(quietContext(), input, &opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	data, err := os.ReadFile(opts.output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<svg ") {
		t.Error("output is not SVG")
	}
}

func TestRunRenderPNGWithCache(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "diagram.excalidraw")
	if err := os.WriteFile(input, []byte(testDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := renderOpts{
		output:   filepath.Join(dir, "out.png"),
		format:   "png",
		cacheDir: filepath.Join(dir, "cache"),
	}
	if err := runRender(quietContext(), input, &opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	data, err := os.ReadFile(opts.output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "\x89PNG") {
		t.Error("output is not PNG")
	}

	// Second run hits the cache and still writes the artifact.
	if err := runRender(quietContext(), input, &opts); err != nil {
		t.Fatalf("cached runRender: %v", err)
	}
}

func TestRunRenderMissingInput(t *testing.T) {
	opts := renderOpts{format: "svg", noCache: true}
	if err := runRender(quietContext(), "missing.excalidraw", &opts); err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}
