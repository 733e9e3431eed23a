package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/roa/internal/cache"
	"github.com/ppiankov/roa/internal/util"
	"github.com/ppiankov/roa/internal/worker"
)

func TestLoader_FileCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notice.txt")
	if err := os.WriteFile(path, []byte("\xef\xbb\xbf●理由1（新規性）について\r\n・請求項 1\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := NewLoader(LoaderConfig{}).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n.Kind != SourceFile || n.HTML {
		t.Errorf("Unexpected notice meta: %+v", n)
	}
	if n.Text != "●理由1（新規性）について\n・請求項 1\n" {
		t.Errorf("Unexpected text: %q", n.Text)
	}
}

func TestLoader_Stdin(t *testing.T) {
	l := NewLoader(LoaderConfig{Stdin: strings.NewReader("理由1．（進歩性）\n")})
	n, err := l.Load(context.Background(), StdinSource)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n.Kind != SourceStdin || n.Text != "理由1．（進歩性）\n" {
		t.Errorf("Unexpected notice: %+v", n)
	}
}

func TestLoader_EmptyInput(t *testing.T) {
	l := NewLoader(LoaderConfig{Stdin: strings.NewReader(" \n\t")})
	_, err := l.Load(context.Background(), StdinSource)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(LoaderConfig{}).Load(context.Background(), filepath.Join(t.TempDir(), "none.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestLoader_InvalidUTF8(t *testing.T) {
	l := NewLoader(LoaderConfig{Stdin: strings.NewReader("\xff\xfe\x00")})
	if _, err := l.Load(context.Background(), StdinSource); err == nil {
		t.Error("Expected error for invalid UTF-8")
	}
}

func TestLoader_HTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notice.html")
	doc := `<html><head><title>x</title></head><body>
<p>●理由1（新規性）について</p><div>・請求項 1<br>・備考</div><script>var x = 1;</script>
</body></html>`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := NewLoader(LoaderConfig{}).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !n.HTML {
		t.Error("Expected HTML flag")
	}
	if n.Text != "●理由1（新規性）について\n\n・請求項 1\n・備考\n" {
		t.Errorf("Unexpected text: %q", n.Text)
	}
}

func TestLoader_URLCachedAndRobots(t *testing.T) {
	var fetches atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
		default:
			fetches.Add(1)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = fmt.Fprint(w, "<pre>理由1．（進歩性）\r\n・請求項 2</pre>")
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(FetcherConfig{Timeout: 5 * time.Second, UserAgent: "roa/test", MaxBytes: 1 << 20})
	l := NewLoader(LoaderConfig{
		Fetcher:  fetcher,
		Robots:   util.NewRobotsChecker("roa/test", server.Client()),
		Cache:    cache.NewLayeredCache(time.Minute, "", 0),
		CacheTTL: time.Minute,
	})
	ctx := context.Background()

	n, err := l.Load(ctx, server.URL+"/notices/1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n.Kind != SourceURL || n.Cached || !n.HTML {
		t.Errorf("Unexpected notice meta: %+v", n)
	}
	if n.Text != "理由1．（進歩性）\n・請求項 2\n" {
		t.Errorf("Unexpected text: %q", n.Text)
	}

	n, err = l.Load(ctx, server.URL+"/notices/1")
	if err != nil || !n.Cached {
		t.Fatalf("Expected cached load, got %+v err=%v", n, err)
	}
	if fetches.Load() != 1 {
		t.Errorf("Expected a single fetch, got %d", fetches.Load())
	}

	_, err = l.Load(ctx, server.URL+"/private/2")
	if !errors.Is(err, ErrDisallowed) {
		t.Errorf("Expected ErrDisallowed, got %v", err)
	}
}

func TestIsURL(t *testing.T) {
	for src, want := range map[string]bool{
		"https://example.com/a": true,
		"HTTP://example.com":    true,
		"notice.txt":            false,
		"-":                     false,
		"ftp://example.com":     false,
	} {
		if got := IsURL(src); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", src, got, want)
		}
	}
}

func TestHTMLText_CollapsesFormattingWhitespace(t *testing.T) {
	got, err := HTMLText(strings.NewReader("<body><p>  引用文献１\n   の段落  </p><p>　全角</p></body>"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "引用文献１ の段落\n\n　全角\n" {
		t.Errorf("Unexpected text: %q", got)
	}
}

func TestLoader_URLThrottledWithCrawlDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nCrawl-delay: 1\n")
			return
		}
		_, _ = fmt.Fprint(w, "理由1．（進歩性）\n")
	}))
	defer server.Close()

	l := NewLoader(LoaderConfig{
		Robots:  util.NewRobotsChecker("roa/test", server.Client()),
		Limiter: worker.NewLimiter(0, 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := l.Load(ctx, server.URL+"/notices/1")
	if err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("Expected the crawl delay to outlast the deadline, got %v", err)
	}
}
