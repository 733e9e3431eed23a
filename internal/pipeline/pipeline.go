package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/ppiankov/roa/internal/cache"
	"github.com/ppiankov/roa/internal/logging"
	"github.com/ppiankov/roa/internal/model"
	"github.com/ppiankov/roa/internal/util"
	"github.com/ppiankov/roa/internal/worker"
)

// Pipeline loads a notice, analyzes it and renders the result.
type Pipeline struct {
	loader   *Loader
	analyzer *Analyzer
	renderer *Renderer
	config   *model.Config
	log      logging.Logger
}

// Option customizes a Pipeline.
type Option func(*pipelineOptions)

type pipelineOptions struct {
	stdin io.Reader
	cache cache.Cache
}

// WithStdin replaces os.Stdin as the source of "-".
func WithStdin(r io.Reader) Option {
	return func(o *pipelineOptions) { o.stdin = r }
}

// WithCache replaces the cache built from the configuration.
func WithCache(c cache.Cache) Option {
	return func(o *pipelineOptions) { o.cache = c }
}

// NewPipeline creates a pipeline from the configuration.
func NewPipeline(cfg *model.Config, log logging.Logger, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	log = logging.OrDefault(log).Named("pipeline")

	var o pipelineOptions
	for _, opt := range opts {
		opt(&o)
	}

	layout, err := cfg.Paragraphs.Layout()
	if err != nil {
		return nil, fmt.Errorf("paragraph layout: %w", err)
	}

	renderer, err := NewRenderer(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	fetcher := NewFetcher(FetcherConfig{
		Timeout:   cfg.Input.Timeout,
		UserAgent: cfg.Input.UserAgent,
		MaxBytes:  cfg.Input.MaxBodyBytes,
		Proxy:     util.NewProxyFunc(cfg.Input.HTTPProxy, cfg.Input.HTTPSProxy, cfg.Input.NoProxy),
	})

	var robots *util.RobotsChecker
	if cfg.Input.RespectRobots {
		robots = util.NewRobotsChecker(cfg.Input.UserAgent, fetcher.Client())
	}

	c := o.cache
	if c == nil && cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		loader: NewLoader(LoaderConfig{
			Fetcher:  fetcher,
			Robots:   robots,
			Limiter:  worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
			Cache:    c,
			CacheTTL: cfg.Cache.DiskTTL,
			MaxBytes: cfg.Input.MaxBodyBytes,
			Stdin:    o.stdin,
			Logger:   log.Named("loader"),
		}),
		analyzer: NewAnalyzer(
			WithLayout(layout),
			WithDebug(cfg.Output.Debug),
			WithLogger(log.Named("analyzer")),
		),
		renderer: renderer,
		config:   cfg,
		log:      log,
	}, nil
}

// Renderer returns the configured renderer.
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Process loads and analyzes one source.
func (p *Pipeline) Process(ctx context.Context, source string) (*model.AnalysisResult, error) {
	notice, err := p.loader.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	result := p.analyzer.Analyze(notice.Text)
	result.Source = source

	p.log.Info("analyzed notice",
		logging.String("source", source),
		logging.String("kind", string(notice.Kind)),
		logging.Bool("cached", notice.Cached),
		logging.Int("blocks", len(result.Blocks)),
		logging.Int("rows_novelty", len(result.RowsNovelty)),
		logging.Int("rows_other", len(result.RowsOther)),
	)
	return result, nil
}

// AnalyzeText analyzes text that is already in memory.
func (p *Pipeline) AnalyzeText(text string) *model.AnalysisResult {
	return p.analyzer.Analyze(text)
}
