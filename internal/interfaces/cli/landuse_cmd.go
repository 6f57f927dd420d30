package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newLandUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "landuse",
		Short: "Inspect land use codes",
	}
	cmd.AddCommand(newLandUseAnalyzeCmd(app))
	return cmd
}

func newLandUseAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "List parcel land use codes with and without a taxonomy match",
		RunE: func(cmd *cobra.Command, args []string) error {
			var projectID *uuid.UUID
			if cmd.Flags().Changed("project") {
				id, err := parseUUIDFlag(cmd, "project")
				if err != nil {
					return fmt.Errorf("invalid --project: %w", err)
				}
				projectID = &id
			}

			res, err := app.LandUse.Analyze(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return printJSON(out, res)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tPARCELS\tSTATUS\tSUGGESTION")
			for _, m := range res.Matched {
				status := "exact"
				if m.ViaMapping {
					status = "mapped"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t\n", m.Code, m.ParcelCount, status)
			}
			for _, u := range res.Unmatched {
				suggestion := ""
				if u.Suggestion != nil {
					suggestion = u.Suggestion.Code + " " + u.Suggestion.Name
				}
				fmt.Fprintf(w, "%s\t%d\tunmatched\t%s\n", u.Code, u.ParcelCount, suggestion)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d parcels, %d without a taxonomy code\n", res.TotalParcels, res.UnmatchedParcels)
			return nil
		},
	}
	cmd.Flags().String("project", "", "limit the analysis to one project id")
	return cmd
}
