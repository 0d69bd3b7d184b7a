package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newTemplateCommand(opts *rootOptions) *cobra.Command {
	var (
		supplierName string
		industry     string
		out          string
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Render an empty supplier evaluation sheet as CSV",
		Example: `  esgsentinel template --industry 제조 --supplier "한빛테크" --out sheet.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}

			csv := rt.service.TemplateCSV(supplierName, industry)
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), csv)
				return nil
			}
			if err := os.WriteFile(out, []byte(csv+"\n"), 0o644); err != nil {
				return fmt.Errorf("write template sheet: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "template sheet written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&supplierName, "supplier", "", "supplier name for the sheet metadata line")
	cmd.Flags().StringVarP(&industry, "industry", "i", "", "industry, used for template selection")
	cmd.Flags().StringVar(&out, "out", "", "write the sheet to a file instead of stdout")

	return cmd
}
