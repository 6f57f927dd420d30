package cli

import (
	"fmt"
	"os"

	budgetapp "github.com/landscape/backend/internal/application/budget"
	"github.com/spf13/cobra"
)

func newBudgetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage budget templates and exports",
	}
	cmd.AddCommand(
		newImportTemplateCmd(app),
		newApplyTemplateCmd(app),
		newExportBudgetCmd(app),
	)
	return cmd
}

func newImportTemplateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import-template FILE",
		Short: "Create a budget template from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			tf, err := budgetapp.ParseTemplateYAML(f)
			if err != nil {
				return err
			}
			t, err := app.Templates.ImportTemplate(cmd.Context(), tf)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported template %q (%s) with %d top-level categories\n",
				t.Name, t.ID, len(t.Categories))
			return nil
		},
	}
}

func newApplyTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply-template",
		Short: "Copy a template's categories into a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseUUIDFlag(cmd, "project")
			if err != nil {
				return fmt.Errorf("invalid --project: %w", err)
			}
			templateID, err := parseUUIDFlag(cmd, "template")
			if err != nil {
				return fmt.Errorf("invalid --template: %w", err)
			}
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			res, err := app.Templates.ApplyTemplate(cmd.Context(), projectID, budgetapp.ApplyTemplateRequest{
				TemplateID:        templateID,
				OverwriteExisting: overwrite,
			})
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d categories, removed %d\n", res.CategoriesCreated, res.CategoriesRemoved)
			return nil
		},
	}
	cmd.Flags().String("project", "", "target project id")
	cmd.Flags().String("template", "", "budget template id")
	cmd.Flags().Bool("overwrite", false, "replace the project's existing categories")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func newExportBudgetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a project's budget summary as xlsx or pdf",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseUUIDFlag(cmd, "project")
			if err != nil {
				return fmt.Errorf("invalid --project: %w", err)
			}
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			res, err := app.Budgets.Export(cmd.Context(), projectID, format)
			if err != nil {
				return err
			}
			if output == "" {
				output = res.FileName
			}
			if err := os.WriteFile(output, res.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", output, len(res.Data))
			return nil
		},
	}
	cmd.Flags().String("project", "", "project id")
	cmd.Flags().String("format", "xlsx", "xlsx or pdf")
	cmd.Flags().StringP("output", "o", "", "output file (default: generated name)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
