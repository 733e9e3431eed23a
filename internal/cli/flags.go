package cli

import (
	"time"

	"github.com/ppiankov/roa/internal/model"
	"github.com/spf13/pflag"
)

// sourceFlags are shared by analyze and batch. Only flags the user set
// override the configuration.
type sourceFlags struct {
	fetchTimeout time.Duration
	userAgent    string
	maxBytes     int64
	noCache      bool
	noRobots     bool
	httpProxy    string
	httpsProxy   string

	format         string
	debug          bool
	paragraphMode  string
	groupOrder     string
	rangeDirection string
	singleLine     bool
}

func (f *sourceFlags) register(fs *pflag.FlagSet) {
	d := model.DefaultConfig()

	fs.DurationVar(&f.fetchTimeout, "fetch-timeout", d.Input.Timeout, "timeout for downloading a URL source")
	fs.StringVar(&f.userAgent, "ua", d.Input.UserAgent, "HTTP User-Agent")
	fs.Int64Var(&f.maxBytes, "max-bytes", d.Input.MaxBodyBytes, "max bytes read from a source")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable cache (force fresh fetch)")
	fs.BoolVar(&f.noRobots, "no-robots", false, "do not consult robots.txt before fetching")
	fs.StringVar(&f.httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	fs.StringVar(&f.httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	fs.StringVarP(&f.format, "format", "f", d.Output.Format, "output format (json, yaml)")
	fs.BoolVar(&f.debug, "debug", false, "include paragraph attribution details in the result")
	fs.StringVar(&f.paragraphMode, "paragraph-mode", d.Paragraphs.Mode, "paragraph layout (grouped, legacy)")
	fs.StringVar(&f.groupOrder, "group-order", d.Paragraphs.GroupOrder, "order of paragraph groups (asc, desc)")
	fs.StringVar(&f.rangeDirection, "range-direction", d.Paragraphs.RangeDirection, "direction inside a paragraph range (asc, desc)")
	fs.BoolVar(&f.singleLine, "single-line", false, "print paragraphs and figures on one line")
}

func (f *sourceFlags) apply(fs *pflag.FlagSet, cfg *model.Config) {
	if fs.Changed("fetch-timeout") {
		cfg.Input.Timeout = f.fetchTimeout
	}
	if fs.Changed("ua") {
		cfg.Input.UserAgent = f.userAgent
	}
	if fs.Changed("max-bytes") {
		cfg.Input.MaxBodyBytes = f.maxBytes
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
	if f.noRobots {
		cfg.Input.RespectRobots = false
	}
	if fs.Changed("http-proxy") {
		cfg.Input.HTTPProxy = f.httpProxy
	}
	if fs.Changed("https-proxy") {
		cfg.Input.HTTPSProxy = f.httpsProxy
	}

	if fs.Changed("format") {
		cfg.Output.Format = f.format
	}
	if f.debug {
		cfg.Output.Debug = true
	}
	if fs.Changed("paragraph-mode") {
		cfg.Paragraphs.Mode = f.paragraphMode
	}
	if fs.Changed("group-order") {
		cfg.Paragraphs.GroupOrder = f.groupOrder
	}
	if fs.Changed("range-direction") {
		cfg.Paragraphs.RangeDirection = f.rangeDirection
	}
	if f.singleLine {
		cfg.Paragraphs.Multiline = false
	}
}
