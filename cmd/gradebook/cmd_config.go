package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gradebook-analyzer/gradebook/internal/projectconfig"
	"github.com/gradebook-analyzer/gradebook/internal/validation"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the .gradebook.yaml project configuration",
	}
	cmd.AddCommand(newConfigValidateCommand(a))
	cmd.AddCommand(newConfigShowCommand(a))
	return cmd
}

func newConfigValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a config file against the schema",
		Long: `Validate checks a config file against the embedded JSON schema and lists
every violation. Without a path it uses --config, or the .gradebook.yaml
found from the working directory up.`,
		Args: cobra.MaximumNArgs(1),
		// The config under test may be invalid, so skip the root loader.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupDefaultLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("getting working directory: %w", err)
				}
				found, err := projectconfig.Find(wd)
				if err != nil {
					return err
				}
				path = found
			}

			errs, err := validation.ValidateConfigFile(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(errs) > 0 {
				fmt.Fprintf(out, "✗ %s\n", path) //nolint:errcheck
				for _, e := range errs {
					fmt.Fprintf(out, "  %s\n", e) //nolint:errcheck
				}
				return fmt.Errorf("%s: %d schema error(s)", path, len(errs))
			}
			fmt.Fprintf(out, "✓ %s is valid\n", path) //nolint:errcheck
			return nil
		},
	}
}

func newConfigShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Long: `Show prints the configuration after defaults, the config file and
GRADEBOOK_* environment variables have been applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if a.cfg.Source != "" {
				fmt.Fprintf(out, "# source: %s\n", a.cfg.Source) //nolint:errcheck
			} else {
				fmt.Fprintln(out, "# source: defaults") //nolint:errcheck
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}
}
