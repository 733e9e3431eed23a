package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/roa/internal/model"
	"gopkg.in/yaml.v3"
)

// Output formats understood by Renderer.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Renderer writes analysis results.
type Renderer struct {
	format string
}

// NewRenderer creates a renderer for the given format ("json" or "yaml").
func NewRenderer(format string) (*Renderer, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", FormatJSON:
		return &Renderer{format: FormatJSON}, nil
	case FormatYAML, "yml":
		return &Renderer{format: FormatYAML}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// Format returns the output format.
func (r *Renderer) Format() string {
	return r.format
}

// Ext returns the file extension for the output format, with the dot.
func (r *Renderer) Ext() string {
	if r.format == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// Render encodes result to w.
func (r *Renderer) Render(w io.Writer, result *model.AnalysisResult) error {
	if r.format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteFile renders result into path, creating parent directories.
func (r *Renderer) WriteFile(result *model.AnalysisResult, path string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", closeErr)
		}
	}()

	return r.Render(f, result)
}

const banner = "═══════════════════════════════════════════════════════════"

// RenderSummary prints a human-readable overview of result.
func RenderSummary(w io.Writer, result *model.AnalysisResult) {
	title := "Notice"
	if result.Source != "" {
		title = result.Source
	}

	fmt.Fprintf(w, "\n%s\n  %s\n%s\n\n", banner, title, banner)

	fmt.Fprintf(w, "  Reasons:      %d blocks\n", len(result.Blocks))
	fmt.Fprintf(w, "  References:   %d\n", len(result.References))
	fmt.Fprintf(w, "  Assigned:     %s\n", result.AssignedText())
	fmt.Fprintf(w, "  Open:         %s (%s)\n", result.OpenText(), result.OpenSource)

	if len(result.RowsNovelty) > 0 {
		fmt.Fprintf(w, "\n  Novelty / inventive step:\n")
		for _, row := range result.RowsNovelty {
			fmt.Fprintf(w, "    • 請求項%s  %s  %s\n", row.Claims, row.Type, row.Article)
			writeIndented(w, "ref", row.References)
			writeIndented(w, "para", row.Paragraphs)
		}
	}

	if len(result.RowsOther) > 0 {
		fmt.Fprintf(w, "\n  Other reasons:\n")
		for _, row := range result.RowsOther {
			fmt.Fprintf(w, "    • 請求項%s  %s  %s\n", row.Claims, row.Reason, row.Article)
		}
	}

	fmt.Fprintf(w, "\n")
}

func writeIndented(w io.Writer, label, text string) {
	if text == "" {
		return
	}
	for i, line := range strings.Split(text, "\n") {
		if i == 0 {
			fmt.Fprintf(w, "        %-5s %s\n", label+":", line)
			continue
		}
		fmt.Fprintf(w, "              %s\n", line)
	}
}
