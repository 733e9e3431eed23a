package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/roa/internal/logging"
	"github.com/ppiankov/roa/internal/model"
)

// Processor loads and analyzes one notice source.
type Processor interface {
	Process(ctx context.Context, source string) (*model.AnalysisResult, error)
}

// SourceResult is the outcome for one source.
type SourceResult struct {
	Source   string
	Result   *model.AnalysisResult
	Error    error
	Duration time.Duration
}

// Err implements Result.
func (r *SourceResult) Err() error {
	return r.Error
}

type analyzeJob struct {
	source    string
	processor Processor
}

func (j *analyzeJob) Execute(ctx context.Context) Result {
	start := time.Now()
	res, err := j.processor.Process(ctx, j.source)
	return &SourceResult{Source: j.source, Result: res, Error: err, Duration: time.Since(start)}
}

// BatchProcessor analyzes many sources with a worker pool. A failing
// source never aborts the batch.
type BatchProcessor struct {
	processor Processor
	pool      *Pool
	log       logging.Logger
}

// NewBatchProcessor creates a batch processor. Per-host throttling of URL
// sources is the Processor's concern.
func NewBatchProcessor(processor Processor, workers int, log logging.Logger) *BatchProcessor {
	return &BatchProcessor{
		processor: processor,
		pool:      NewPool(workers),
		log:       logging.OrDefault(log).Named("batch"),
	}
}

// ProcessSources analyzes sources and returns one result per source, in
// input order.
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*SourceResult {
	jobs := make([]Job, len(sources))
	for i, src := range sources {
		jobs[i] = &analyzeJob{source: src, processor: b.processor}
	}

	raw := b.pool.Run(ctx, jobs)
	out := make([]*SourceResult, len(raw))
	for i, r := range raw {
		sr, ok := r.(*SourceResult)
		if !ok || sr == nil {
			sr = &SourceResult{Source: sources[i], Error: fmt.Errorf("not started: %w", context.Cause(ctx))}
		}
		if sr.Error != nil {
			b.log.Warn("source failed", logging.String("source", sr.Source), logging.Err(sr.Error))
		} else {
			b.log.Debug("source analyzed", logging.String("source", sr.Source), logging.Duration("took", sr.Duration))
		}
		out[i] = sr
	}
	return out
}

// ProcessFile reads a source list and analyzes every entry.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*SourceResult, error) {
	sources, err := ReadSourcesFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads one source per line, skipping blanks and "#"
// comments and dropping duplicates. Relative file paths are resolved
// against the list's directory.
func ReadSourcesFromFile(listPath string) ([]string, error) {
	f, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	base := filepath.Dir(listPath)
	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, isURL := hostOf(line); !isURL && !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return sources, nil
}
