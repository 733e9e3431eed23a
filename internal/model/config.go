package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/roa/internal/pararef"
)

// Config is the complete roa configuration. Field tags serve both viper
// (mapstructure) and `roa config show` (yaml).
type Config struct {
	Input        InputConfig        `yaml:"input" mapstructure:"input"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Paragraphs   ParagraphConfig    `yaml:"paragraphs" mapstructure:"paragraphs"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// InputConfig controls how notices are read from files and URLs.
type InputConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig controls caching of fetched notice text.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles URL sources per host.
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ParagraphConfig selects the paragraph/figure layout used in rows.
// Mode "legacy" uses Desc; any other mode uses GroupOrder/RangeDirection.
type ParagraphConfig struct {
	Mode           string `yaml:"mode" mapstructure:"mode"`
	GroupOrder     string `yaml:"group_order" mapstructure:"group_order"`
	RangeDirection string `yaml:"range_direction" mapstructure:"range_direction"`
	Desc           bool   `yaml:"desc" mapstructure:"desc"`
	Multiline      bool   `yaml:"multiline" mapstructure:"multiline"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // json or yaml
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Debug   bool   `yaml:"debug" mapstructure:"debug"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "roa/0.1 (+https://github.com/ppiankov/roa)",
			MaxBodyBytes:  5_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Paragraphs: ParagraphConfig{
			Mode:           "grouped",
			GroupOrder:     "asc",
			RangeDirection: "desc",
			Multiline:      true,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Layout resolves the paragraph settings into a rendering layout.
func (p ParagraphConfig) Layout() (pararef.Layout, error) {
	if strings.EqualFold(strings.TrimSpace(p.Mode), "legacy") {
		return pararef.Legacy{Desc: p.Desc, Multiline: p.Multiline}, nil
	}
	group, err := pararef.ParseOrder(p.GroupOrder)
	if err != nil {
		return nil, fmt.Errorf("paragraphs.group_order: %w", err)
	}
	dir, err := pararef.ParseOrder(p.RangeDirection)
	if err != nil {
		return nil, fmt.Errorf("paragraphs.range_direction: %w", err)
	}
	return pararef.Grouped{GroupOrder: group, RangeDirection: dir, Multiline: p.Multiline}, nil
}
