package cli

import (
	"github.com/runoshun/boards-seed/internal/app"
	"github.com/runoshun/boards-seed/internal/usecase"
	"github.com/spf13/cobra"
)

// newCreateCommand creates the create command.
func newCreateCommand(get func() *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "create [yaml_file]",
		Short: "Create work items from a hierarchy file",
		Long: `Create an Azure DevOps work item for every epic, feature and backlog item
in the file, parents first, and link each one to its parent.

Created items are appended to the manifest (created_items.yaml by default).
A node that fails to create is reported and its children are skipped; the
remaining siblings are still created. The command exits non-zero if any
operation failed.`,
		Example: `  # Create from input.yaml
  boards-seed create

  # Preview the hierarchy without creating anything
  boards-seed create plan.yaml --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := get()
			uc, err := c.CreateItemsUseCase(dryRun)
			if err != nil {
				return err
			}

			out, err := uc.Execute(cmd.Context(), usecase.CreateItemsInput{
				Path:   c.InputPath(firstArg(args)),
				DryRun: dryRun,
			})
			if out == nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			if dryRun {
				p.printPlan(out.Hierarchy, c.AppConfig.Types)
				return nil
			}

			p.printCreateSummary(out.Report)
			if err != nil {
				return err
			}
			return out.Report.Err()
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the planned hierarchy without calling Azure DevOps")

	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
