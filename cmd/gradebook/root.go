package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gradebook-analyzer/gradebook/internal/logging"
	"github.com/gradebook-analyzer/gradebook/internal/projectconfig"
)

var version = "dev"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	debug      bool
	configPath string
	cfg        *projectconfig.ProjectConfig
}

// loadConfig resolves the project config (explicit --config, or walk-up from
// the working directory) and configures logging from it.
func (a *app) loadConfig(cmd *cobra.Command) error {
	var (
		cfg *projectconfig.ProjectConfig
		err error
	)
	if a.configPath != "" {
		cfg, err = projectconfig.LoadFile(a.configPath)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg, err = projectconfig.Load(wd)
	}
	if err != nil {
		return err
	}
	a.cfg = cfg

	if _, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, a.debug, cmd.ErrOrStderr()); err != nil {
		return err
	}
	return nil
}

// setupDefaultLogging is used by commands that must run even when the
// project config is broken.
func (a *app) setupDefaultLogging(cmd *cobra.Command) error {
	_, err := logging.Setup(projectconfig.DefaultLogLevel, projectconfig.DefaultLogFormat, a.debug, cmd.ErrOrStderr())
	return err
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "gradebook",
		Short: "Gradebook - analyze student scores",
		Long: `Gradebook reads student names and scores from interactive prompts,
CSV files (optionally gzip or zstd compressed) or Excel workbooks, and
reports averages, medians, extremes, letter grades and pass/fail lists.

Run without a subcommand to open the interactive menu.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, a)
		},
	}

	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a config file (default: .gradebook.yaml found from the working directory up)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.loadConfig(cmd)
	}

	// Add subcommands
	cmd.AddCommand(newMenuCommand(a))
	cmd.AddCommand(newEnterCommand(a))
	cmd.AddCommand(newAnalyzeCommand(a))
	cmd.AddCommand(newCompareCommand(a))
	cmd.AddCommand(newWatchCommand(a))
	cmd.AddCommand(newConfigCommand(a))

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
