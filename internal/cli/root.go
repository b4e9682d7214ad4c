// Package cli provides the command-line interface for boards-seed.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/boards-seed/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Command group IDs.
const (
	groupItems = "items"
	groupSetup = "setup"
)

// ContainerFactory builds the container once global flags are parsed.
type ContainerFactory func(opts app.Options) (*app.Container, error)

// containerRef hands the container built in PersistentPreRunE to subcommands.
type containerRef struct {
	c *app.Container
}

func (r *containerRef) get() *app.Container {
	return r.c
}

// Execute runs the root command with args and closes the container afterwards.
func Execute(ctx context.Context, factory ContainerFactory, version string, args []string) error {
	var built *app.Container
	root := NewRootCommand(func(opts app.Options) (*app.Container, error) {
		c, err := factory(opts)
		built = c
		return c, err
	}, version)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if built != nil {
		_ = built.Close()
	}
	return err
}

// NewRootCommand creates the root command for boards-seed.
// The container is built by factory before any subcommand runs.
func NewRootCommand(factory ContainerFactory, version string) *cobra.Command {
	var debug bool
	var configPath string
	ref := &containerRef{}

	root := &cobra.Command{
		Use:   "boards-seed",
		Short: "Create and delete Azure Boards work item hierarchies from YAML",
		Long: `boards-seed reads a YAML file of epics, features and backlog items,
creates the matching Azure DevOps work items with parent links, and records
their IDs in a manifest so the whole hierarchy can be deleted again.

Input file format:

  epics:
    - title: Checkout
      features:
        - title: Payment
          items:
            - title: Card form`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// config --init creates the --config file, so it may not exist yet
			initFlag := cmd.Flags().Lookup("init")
			c, err := factory(app.Options{
				Dir:                ".",
				ConfigPath:         configPath,
				Debug:              debug,
				Console:            cmd.ErrOrStderr(),
				AllowMissingConfig: initFlag != nil && initFlag.Changed,
			})
			if err != nil {
				return err
			}
			ref.c = c

			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	// Accept --dry_run as well as --dry-run
	root.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Use this config file instead of ./.boards-seed.toml")

	root.AddGroup(
		&cobra.Group{ID: groupItems, Title: "Work Items:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	createCmd := newCreateCommand(ref.get)
	createCmd.GroupID = groupItems

	deleteCmd := newDeleteCommand(ref.get)
	deleteCmd.GroupID = groupItems

	manifestCmd := newManifestCommand(ref.get)
	manifestCmd.GroupID = groupItems

	configCmd := newConfigCommand(ref.get)
	configCmd.GroupID = groupSetup

	root.AddCommand(createCmd, deleteCmd, manifestCmd, configCmd)

	return root
}
