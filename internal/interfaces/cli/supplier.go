package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/ESG-Sentinel/internal/application/assessment"
)

func newSupplierCommand(opts *rootOptions) *cobra.Command {
	var (
		name     string
		industry string
		file     string
		docs     []string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "supplier [text...]",
		Short: "Evaluate a supplier against its industry checklist template",
		Example: `  esgsentinel supplier --name "한빛테크" --industry 제조 --file self_assessment.txt
  esgsentinel supplier -n "한빛테크" -i 제조 --doc audit_2025.txt < notes.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}

			text, err := readContext(cmd, file, args)
			if err != nil {
				return err
			}

			documents := make([]string, 0, len(docs))
			for _, path := range docs {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read document %s: %w", path, err)
				}
				documents = append(documents, string(data))
			}

			resp, err := rt.service.EvaluateSupplier(cmd.Context(), assessment.SupplierRequest{
				Supplier:  name,
				Industry:  industry,
				Context:   text,
				Documents: documents,
			})
			if err != nil {
				return err
			}

			switch format {
			case "csv":
				fmt.Fprintln(cmd.OutOrStdout(), resp.CSV)
			case "json":
				data, err := json.MarshalIndent(resp.Payload, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			default:
				return fmt.Errorf("unknown format %q, want csv or json", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "supplier name (required)")
	cmd.Flags().StringVarP(&industry, "industry", "i", "", "supplier industry, used for template selection")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the evaluation context from a file")
	cmd.Flags().StringArrayVar(&docs, "doc", nil, "supporting document file, repeatable")
	cmd.Flags().StringVarP(&format, "format", "o", "csv", "output format: csv or json")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
