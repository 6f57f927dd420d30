// Package cli implements landctl, the operator command line for land use
// code cleanup, budget template management and parcel lookups.
package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	budgetapp "github.com/landscape/backend/internal/application/budget"
	gisapp "github.com/landscape/backend/internal/application/gis"
	landuseapp "github.com/landscape/backend/internal/application/landuse"
	"github.com/spf13/cobra"
)

// LandUseAnalyzer reports legacy land use codes. *landuseapp.LandUseService satisfies it.
type LandUseAnalyzer interface {
	Analyze(ctx context.Context, projectID *uuid.UUID) (*landuseapp.AnalysisResponse, error)
}

// TemplateManager imports templates and copies them into projects.
// *budgetapp.TemplateService satisfies it.
type TemplateManager interface {
	ImportTemplate(ctx context.Context, f *budgetapp.TemplateFile) (*budgetapp.TemplateResponse, error)
	ApplyTemplate(ctx context.Context, projectID uuid.UUID, req budgetapp.ApplyTemplateRequest) (*budgetapp.ApplyTemplateResponse, error)
}

// BudgetExporter renders a project budget. *budgetapp.BudgetService satisfies it.
type BudgetExporter interface {
	Export(ctx context.Context, projectID uuid.UUID, format string) (*budgetapp.ExportResult, error)
}

// ParcelLookup fetches parcels by APN. *gisapp.GISService satisfies it.
type ParcelLookup interface {
	FetchParcels(ctx context.Context, apns []string) (*gisapp.LookupResponse, error)
}

// App holds the services the commands run against
type App struct {
	LandUse   LandUseAnalyzer
	Templates TemplateManager
	Budgets   BudgetExporter
	Parcels   ParcelLookup
}

// NewRootCmd builds the landctl command tree
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "landctl",
		Short:         "Operator tooling for the Landscape backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("json", false, "print results as JSON")

	root.AddCommand(
		newLandUseCmd(app),
		newBudgetCmd(app),
		newGISCmd(app),
	)
	return root
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseUUIDFlag(cmd *cobra.Command, name string) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString(name)
	return uuid.Parse(raw)
}
