package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/roa/internal/pipeline"
	"github.com/ppiankov/roa/internal/worker"
	"github.com/spf13/cobra"
)

type batchOptions struct {
	root        *rootOptions
	source      sourceFlags
	concurrency int
	outputDir   string
	timeout     time.Duration
}

func newBatchCommand(root *rootOptions) *cobra.Command {
	o := &batchOptions{root: root}

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Analyze many notices listed in a file",
		Long: `Batch analyzes every notice listed in the input file:
- one file path or URL per line, # starts a comment
- duplicate entries are analyzed once
- relative paths are resolved against the list's directory
- one result file per notice is written to the output directory

Example:
  roa batch notices.txt
  roa batch notices.txt --concurrency 8 --output-dir ./results
  roa batch urls.txt --format yaml --timeout 30m`,
		Args: cobra.ExactArgs(1),
		RunE: o.run,
	}

	o.source.register(cmd.Flags())
	cmd.Flags().IntVarP(&o.concurrency, "concurrency", "c", 0, "number of concurrent workers (default: concurrency.workers)")
	cmd.Flags().StringVar(&o.outputDir, "output-dir", "./roa-results", "output directory for results")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	return cmd
}

func (o *batchOptions) run(cmd *cobra.Command, args []string) error {
	file := args[0]
	stderr := cmd.ErrOrStderr()

	cfg, log, err := o.root.load()
	if err != nil {
		return err
	}
	o.source.apply(cmd.Flags(), cfg)
	if o.concurrency > 0 {
		cfg.Concurrency.Workers = o.concurrency
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()

	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "%s\n", banner)
	fmt.Fprintf(stderr, "  roa Batch Processing\n")
	fmt.Fprintf(stderr, "%s\n", banner)
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(stderr, "  Output dir:   %s\n", o.outputDir)
	fmt.Fprintf(stderr, "  Timeout:      %v\n", o.timeout)
	fmt.Fprintf(stderr, "\n")

	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg, log)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, log)

	fmt.Fprintf(stderr, "⚙️  Analyzing notices with %d workers...\n\n", cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := p.Renderer()
	successCount := 0
	failureCount := 0

	for i, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(stderr, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}

		path := filepath.Join(o.outputDir, outputName(i, result.Source, renderer.Ext()))
		if err := renderer.WriteFile(result.Result, path); err != nil {
			failureCount++
			fmt.Fprintf(stderr, "✗ %s: failed to write result: %v\n", result.Source, err)
			continue
		}

		successCount++
		fmt.Fprintf(stderr, "✓ %s (%d rows, open: %s)\n", result.Source,
			len(result.Result.RowsNovelty)+len(result.Result.RowsOther), result.Result.OpenText())
	}

	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "%s\n", banner)
	fmt.Fprintf(stderr, "  Batch Complete\n")
	fmt.Fprintf(stderr, "%s\n", banner)
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Total:     %d notices\n", len(results))
	fmt.Fprintf(stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(stderr, "  Output:    %s\n", o.outputDir)
	fmt.Fprintf(stderr, "\n")

	return nil
}

const banner = "═══════════════════════════════════════════════════════════"

// outputName builds a unique result file name for the i-th source.
func outputName(i int, source, ext string) string {
	base := source
	if pipeline.IsURL(source) {
		if u, err := url.Parse(source); err == nil {
			base = u.Host + strings.TrimSuffix(u.Path, "/")
		}
	} else {
		base = filepath.Base(source)
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return fmt.Sprintf("%03d-%s%s", i+1, sanitizeFilename(base), ext)
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename makes s safe to use as a file name.
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, "._-")

	if r := []rune(s); len(r) > 100 {
		s = string(r[:100])
	}
	if s == "" {
		return "notice"
	}
	return s
}
