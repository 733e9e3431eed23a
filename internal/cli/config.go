package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/roa/internal/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage roa configuration",
		Long: `Manage roa configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (ROA_*, e.g. ROA_OUTPUT_FORMAT=yaml)
3. Config file (~/.roa/config.yaml)
4. Defaults`,
	}
	cmd.AddCommand(newConfigShowCommand(root), newConfigInitCommand())
	return cmd
}

func newConfigShowCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  `Display the effective configuration after merging defaults, the config file and environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if configFile := root.v.ConfigFileUsed(); configFile != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", configFile)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults)\n\n")
			}

			yamlData, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}

			fmt.Fprintln(out, banner)
			fmt.Fprintln(out, "  Current Configuration")
			fmt.Fprintln(out, banner)
			fmt.Fprintln(out)
			fmt.Fprintln(out, string(yamlData))
			fmt.Fprintln(out, banner)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Configuration hierarchy (highest to lowest priority):")
			fmt.Fprintln(out, "  1. CLI flags")
			fmt.Fprintln(out, "  2. Environment variables (ROA_*)")
			fmt.Fprintln(out, "  3. Config file (~/.roa/config.yaml)")
			fmt.Fprintln(out, "  4. Defaults")
			fmt.Fprintln(out)
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var path string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration file",
		Long:  `Create a default configuration file (~/.roa/config.yaml unless --path is given) listing every option.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("error finding home directory: %w", err)
				}
				path = filepath.Join(home, ".roa", "config.yaml")
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s\nUse 'roa config show' to view it, or pass --force to overwrite", path)
			}
			if err := writeDefaultConfig(path); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", path)
			fmt.Fprintf(out, "\nTo view the configuration:\n")
			fmt.Fprintf(out, "  roa config show\n")
			fmt.Fprintf(out, "\nTo customize, edit the file with your preferred editor:\n")
			fmt.Fprintf(out, "  $EDITOR %s\n\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "where to write the file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func writeDefaultConfig(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	header := `# roa configuration file
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (ROA_*, e.g. ROA_PARAGRAPHS_MODE=legacy)
#   3. This config file
#   4. Built-in defaults
#
# paragraphs.mode: grouped | legacy
#   grouped uses group_order, range_direction and multiline
#   legacy uses desc and multiline

`
	if _, err := f.WriteString(header); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	if _, err := f.Write(yamlData); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}
