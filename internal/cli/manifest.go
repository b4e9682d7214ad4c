package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/runoshun/boards-seed/internal/app"
	"github.com/runoshun/boards-seed/internal/domain"
	"github.com/runoshun/boards-seed/internal/usecase"
	"github.com/spf13/cobra"
)

// newManifestCommand creates the manifest command.
func newManifestCommand(get func() *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "List work items recorded in the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := get().ShowManifestUseCase().Execute(cmd.Context(), usecase.ShowManifestInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Records) == 0 {
				_, _ = fmt.Fprintf(w, "No items recorded in %s\n", out.Path)
				return nil
			}
			printRecords(w, out.Records)
			return nil
		},
	}
}

// printRecords prints records in creation order as a table.
func printRecords(w io.Writer, records []domain.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tPARENT\tTYPE\tRUN\tTITLE")
	for _, r := range records {
		parent := "-"
		if r.ParentRemoteID != nil {
			parent = strconv.Itoa(*r.ParentRemoteID)
		}
		run := "-"
		if r.RunID != "" {
			run = r.RunID
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.RemoteID, parent, r.Type, run, r.Title)
	}
}
