package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/boards-seed/internal/app"
	"github.com/runoshun/boards-seed/internal/domain"
	"github.com/runoshun/boards-seed/internal/usecase"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the config command.
func newConfigCommand(get func() *app.Container) *cobra.Command {
	var initConfig, showTemplate bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize configuration",
		Long: `Display the configuration files that were loaded and the effective
configuration after merging them over the defaults.

With --init, write a commented template to ./.boards-seed.toml
(or the path given with --config). With --template, print that template
filled with the effective values instead of writing it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := get()
			if initConfig {
				return runConfigInit(cmd, c)
			}
			if showTemplate {
				out, err := c.ShowConfigTemplateUseCase().Execute(cmd.Context(), usecase.ShowConfigTemplateInput{
					Config: c.AppConfig,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Template)
				return nil
			}

			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			printConfigSource(w, out.GlobalConfig)
			printConfigSource(w, out.ProjectConfig)
			_, _ = fmt.Fprintln(w)

			_, _ = fmt.Fprintln(w, "[Effective Config]")
			return formatEffectiveConfig(w, out.EffectiveConfig)
		},
	}

	cmd.Flags().BoolVar(&initConfig, "init", false, "Write a config template to the project config path")
	cmd.Flags().BoolVar(&showTemplate, "template", false, "Print the config template filled with effective values")
	cmd.MarkFlagsMutuallyExclusive("init", "template")

	return cmd
}

func runConfigInit(cmd *cobra.Command, c *app.Container) error {
	out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{
		Config: domain.NewDefaultConfig(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrConfigExists) {
			info := c.ConfigManager.ProjectConfigInfo()
			return fmt.Errorf("%w: %s", err, info.Path)
		}
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
	return nil
}

func printConfigSource(w io.Writer, info domain.ConfigInfo) {
	if info.Path == "" {
		return
	}
	if info.Exists {
		_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
	} else {
		_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
	}
}

// formatEffectiveConfig formats the effective config in TOML format.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
