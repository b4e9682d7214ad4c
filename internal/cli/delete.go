package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/runoshun/boards-seed/internal/app"
	"github.com/runoshun/boards-seed/internal/usecase"
	"github.com/spf13/cobra"
)

// confirmFunc asks a yes/no question, allowing it to be mocked in tests.
var confirmFunc = confirm

// interactiveFunc reports whether prompts can be shown, allowing it to be mocked in tests.
var interactiveFunc = func() bool {
	return isTerminal(os.Stdin)
}

// newDeleteCommand creates the delete command.
func newDeleteCommand(get func() *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [yaml_file]",
		Short: "Delete previously created work items",
		Long: `Delete the work items recorded in the manifest, children before parents.

When the manifest is missing or empty, the hierarchy file is read instead and
each title is looked up in Azure DevOps; every match of the right type is
deleted. Titles with no match are reported but do not fail the run.

Items that could not be deleted stay in the manifest so the command can be
run again. On a terminal the command asks for confirmation unless --yes is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := get()
			path := c.InputPath(firstArg(args))

			if !yes && interactiveFunc() {
				question, err := deleteQuestion(cmd, c, path)
				if err != nil {
					return err
				}
				ok, err := confirmFunc(question)
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			uc, err := c.DeleteItemsUseCase()
			if err != nil {
				return err
			}

			out, err := uc.Execute(cmd.Context(), usecase.DeleteItemsInput{Path: path})
			if out == nil {
				return err
			}

			newPrinter(cmd.OutOrStdout()).printDeleteSummary(out.Report, out.Remaining, c.Manifest.Path())
			if err != nil {
				return err
			}
			return out.Report.Err()
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func deleteQuestion(cmd *cobra.Command, c *app.Container, path string) (string, error) {
	out, err := c.ShowManifestUseCase().Execute(cmd.Context(), usecase.ShowManifestInput{})
	if err != nil {
		return "", err
	}
	if len(out.Records) == 0 {
		return fmt.Sprintf("No items in %s. Search by the titles in %s and delete every match?", out.Path, path), nil
	}
	return fmt.Sprintf("Delete %d work items listed in %s?", len(out.Records), out.Path), nil
}

func confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
