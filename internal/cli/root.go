package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/roa/internal/logging"
	"github.com/ppiankov/roa/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

// rootOptions holds global flags and the configuration layers they select.
type rootOptions struct {
	cfgFile  string
	verbose  bool
	logLevel string
	v        *viper.Viper
}

// NewRootCommand builds the roa command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "roa",
		Short: "roa - reasons-for-rejection notice analyzer",
		Long: `roa reads Japanese patent office "reasons for rejection" notices and turns
them into structured rows for review:

- which claims are rejected, under which reason and statute article
- which cited references apply to each claim group
- which paragraphs and figures of each reference the examiner points to
- which claims received no rejection reason

roa only restructures what the notice says. It does not judge whether a
rejection is sound.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: $HOME/.roa/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newAnalyzeCommand(opts),
		newBatchCommand(opts),
		newConfigCommand(opts),
		newCacheCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "roa %s\n", Version)
		},
	}
}

// initConfig layers defaults, the config file and ROA_* environment variables.
func (o *rootOptions) initConfig(cmd *cobra.Command) error {
	if err := registerDefaults(o.v, model.DefaultConfig()); err != nil {
		return err
	}

	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error finding home directory: %v\n", err)
		} else {
			o.v.AddConfigPath(filepath.Join(home, ".roa"))
		}
		o.v.SetConfigType("yaml")
		o.v.SetConfigName("config")
	}

	o.v.SetEnvPrefix("ROA")
	o.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	o.v.AutomaticEnv()

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if o.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	} else if o.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", o.v.ConfigFileUsed())
	}
	return nil
}

// load decodes the layered configuration and installs the logger it
// describes as the process default.
func (o *rootOptions) load() (*model.Config, logging.Logger, error) {
	cfg := model.DefaultConfig()
	if err := o.v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("decode config: %w", err)
	}

	if o.verbose {
		cfg.Output.Verbose = true
		if logging.ParseLevel(cfg.Log.Level) > zapcore.InfoLevel {
			cfg.Log.Level = "info"
		}
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	logging.SetDefault(log)
	return cfg, log, nil
}

// registerDefaults exposes every configuration key to viper so that
// AutomaticEnv can resolve ROA_SECTION_KEY variables.
func registerDefaults(v *viper.Viper, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	setDefaults(v, "", tree)
	return nil
}

func setDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}
