// ABOUTME: Root cobra command with persistent flags shared by every subcommand
// ABOUTME: Loads configuration once before any subcommand runs

package main

import (
	"github.com/spf13/cobra"

	"adtracker/pkg/config"
)

const appName = "adtracker"

// globalOptions holds the persistent flags and the configuration they produce
type globalOptions struct {
	configPath  string
	historyPath string
	backend     string
	logLevel    string
	logFormat   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Track paid search ad rankings for a list of keywords",
		Long:          `Fetch the paid ads shown for each keyword through SerpApi, rank the advertisers, keep a history of every run and export results as a spreadsheet.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file (default $ADTRACKER_CONFIG or adtracker.yaml)")
	flags.StringVar(&opts.historyPath, "history", "", "history file or database path")
	flags.StringVar(&opts.backend, "backend", "", "history backend: csv or sqlite")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newHistoryCmd(opts),
		newTopCmd(opts),
		newExportCmd(opts),
		newServeCmd(opts),
	)
	return rootCmd
}

// load reads configuration and applies persistent flag overrides
func (o *globalOptions) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if o.backend != "" {
		cfg.History.Backend = o.backend
	}
	if o.historyPath != "" {
		cfg.History.Path = o.historyPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}
