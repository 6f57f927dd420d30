package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newGISCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gis",
		Short: "Query the county parcel service",
	}
	cmd.AddCommand(newGISFetchCmd(app))
	return cmd
}

func newGISFetchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch APN...",
		Short: "Look parcels up by assessor parcel number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var apns []string
			for _, a := range args {
				for _, part := range strings.Split(a, ",") {
					if part = strings.TrimSpace(part); part != "" {
						apns = append(apns, part)
					}
				}
			}

			res, err := app.Parcels.FetchParcels(cmd.Context(), apns)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return printJSON(out, res)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "APN\tACRES\tLAND USE\tADDRESS")
			for _, p := range res.Parcels {
				fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\n", p.APN, p.Acres, p.LandUseCode, p.SitusAddress)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if len(res.NotFound) > 0 {
				fmt.Fprintf(out, "not found: %s\n", strings.Join(res.NotFound, ", "))
			}
			return nil
		},
	}
}
