package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/roa/internal/cache"
	"github.com/ppiankov/roa/internal/logging"
	"github.com/ppiankov/roa/internal/util"
	"github.com/ppiankov/roa/internal/worker"
)

var (
	// ErrEmptyInput is returned when a source yields no text.
	ErrEmptyInput = errors.New("empty input")

	// ErrDisallowed is returned when robots.txt forbids fetching a URL.
	ErrDisallowed = errors.New("disallowed by robots.txt")
)

// StdinSource is the source name that reads standard input.
const StdinSource = "-"

// SourceKind tells where a notice came from.
type SourceKind string

const (
	SourceFile  SourceKind = "file"
	SourceStdin SourceKind = "stdin"
	SourceURL   SourceKind = "url"
)

// Notice is the plain text of one office action, ready for analysis.
type Notice struct {
	Source string
	Kind   SourceKind
	Text   string
	HTML   bool // text was extracted from HTML
	Cached bool // served from the cache
}

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	Fetcher  *Fetcher
	Robots   *util.RobotsChecker // nil disables robots.txt checks
	Limiter  *worker.Limiter     // nil disables per-host throttling
	Cache    cache.Cache         // nil disables caching
	CacheTTL time.Duration
	MaxBytes int64
	Stdin    io.Reader
	Logger   logging.Logger
}

// Loader reads notices from files, stdin or http(s) URLs.
type Loader struct {
	fetcher  *Fetcher
	robots   *util.RobotsChecker
	limiter  *worker.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
	maxBytes int64
	stdin    io.Reader
	log      logging.Logger
}

// NewLoader creates a Loader.
func NewLoader(cfg LoaderConfig) *Loader {
	l := &Loader{
		fetcher:  cfg.Fetcher,
		robots:   cfg.Robots,
		limiter:  cfg.Limiter,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		maxBytes: cfg.MaxBytes,
		stdin:    cfg.Stdin,
		log:      logging.OrDefault(cfg.Logger),
	}
	if l.cache == nil {
		l.cache = cache.Nop{}
	}
	if l.stdin == nil {
		l.stdin = os.Stdin
	}
	if l.maxBytes <= 0 {
		l.maxBytes = 5_000_000
	}
	if l.fetcher == nil {
		l.fetcher = NewFetcher(FetcherConfig{Timeout: 30 * time.Second, UserAgent: "roa", MaxBytes: l.maxBytes})
	}
	return l
}

// IsURL reports whether source names an http(s) URL.
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load reads one source.
func (l *Loader) Load(ctx context.Context, source string) (*Notice, error) {
	switch {
	case source == StdinSource:
		return l.loadReader(SourceStdin, source, l.stdin, "")
	case IsURL(source):
		return l.loadURL(ctx, source)
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", source, err)
		}
		defer func() { _ = f.Close() }()
		return l.loadReader(SourceFile, source, f, mime.TypeByExtension(filepath.Ext(source)))
	}
}

func (l *Loader) loadReader(kind SourceKind, source string, r io.Reader, contentType string) (*Notice, error) {
	body, err := io.ReadAll(io.LimitReader(r, l.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return l.decode(kind, source, body, contentType)
}

func (l *Loader) loadURL(ctx context.Context, source string) (*Notice, error) {
	key := cache.Key(source)
	if cached, ok := l.cache.Get(key); ok {
		l.log.Debug("cache hit", logging.String("source", source))
		return &Notice{Source: source, Kind: SourceURL, Text: string(cached), Cached: true}, nil
	}

	var crawlDelay time.Duration
	if l.robots != nil {
		allowed, delay, err := l.robots.CanFetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("robots.txt: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", source, ErrDisallowed)
		}
		crawlDelay = delay
	}
	if l.limiter != nil {
		if err := l.limiter.WaitWithDelay(ctx, source, crawlDelay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	start := time.Now()
	res, err := l.fetcher.FetchWithRetry(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	l.log.Info("fetched notice",
		logging.String("source", source),
		logging.String("final_url", res.FinalURL),
		logging.Int("bytes", len(res.Body)),
		logging.Bool("truncated", res.Truncated),
		logging.Duration("took", time.Since(start)),
	)

	notice, err := l.decode(SourceURL, source, res.Body, res.ContentType)
	if err != nil {
		return nil, err
	}
	if err := l.cache.Set(key, []byte(notice.Text), l.cacheTTL); err != nil {
		l.log.Warn("cache write failed", logging.String("source", source), logging.Err(err))
	}
	return notice, nil
}

// decode turns raw bytes into analysis text: HTML is reduced to its
// visible text and CRLF / CR line endings become LF.
func (l *Loader) decode(kind SourceKind, source string, body []byte, contentType string) (*Notice, error) {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(body) {
		return nil, fmt.Errorf("%s: input is not valid UTF-8", source)
	}

	isHTML := strings.Contains(strings.ToLower(contentType), "html") || looksLikeHTML(body)
	text := string(body)
	if isHTML {
		extracted, err := HTMLText(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%s: extract HTML text: %w", source, err)
		}
		text = extracted
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyInput)
	}
	return &Notice{Source: source, Kind: kind, Text: text, HTML: isHTML}, nil
}
