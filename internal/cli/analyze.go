package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/roa/internal/pipeline"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	root    *rootOptions
	source  sourceFlags
	out     string
	summary bool
	timeout time.Duration
}

func newAnalyzeCommand(root *rootOptions) *cobra.Command {
	o := &analyzeOptions{root: root}

	cmd := &cobra.Command{
		Use:   "analyze <file|url|->",
		Short: "Analyze one reasons-for-rejection notice",
		Long: `Analyze reads one notice and extracts:
- reason blocks (bullet, summary and plain headings)
- claim groups with their cited references
- paragraph and figure citations per reference
- assigned claims and claims without a rejection reason

The notice may be a text file, an HTML export, "-" for stdin, or an
http(s) URL.

Example:
  roa analyze notice.txt
  roa analyze notice.html --out result.yaml
  pbpaste | roa analyze - --format yaml --summary`,
		Args: cobra.ExactArgs(1),
		RunE: o.run,
	}

	o.source.register(cmd.Flags())
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "output path (default: stdout)")
	cmd.Flags().BoolVar(&o.summary, "summary", false, "print a summary to stderr")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 2*time.Minute, "overall timeout")
	return cmd
}

func (o *analyzeOptions) run(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg, log, err := o.root.load()
	if err != nil {
		return err
	}
	o.source.apply(cmd.Flags(), cfg)
	if o.out != "" && !cmd.Flags().Changed("format") {
		if ext := strings.ToLower(filepath.Ext(o.out)); ext == ".yaml" || ext == ".yml" {
			cfg.Output.Format = pipeline.FormatYAML
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()

	p, err := pipeline.NewPipeline(cfg, log, pipeline.WithStdin(cmd.InOrStdin()))
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Analyzing: %s\n", source)
	}

	result, err := p.Process(ctx, source)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if o.out == "" {
		if err := p.Renderer().Render(cmd.OutOrStdout(), result); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	} else {
		if err := p.Renderer().WriteFile(result, o.out); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s: %s\n", strings.ToUpper(p.Renderer().Format()), o.out)
		}
	}

	if o.summary || cfg.Output.Verbose {
		pipeline.RenderSummary(cmd.ErrOrStderr(), result)
	}
	return nil
}
