package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/ESG-Sentinel/internal/application/assessment"
)

func newAssessCommand(opts *rootOptions) *cobra.Command {
	var (
		file     string
		question string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "assess [text...]",
		Short: "Identify and score ESG risks in a block of text",
		Example: `  esgsentinel assess --file incident_report.txt
  echo "작업발판 난간이 설치되어 있지 않다." | esgsentinel assess --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}

			text, err := readContext(cmd, file, args)
			if err != nil {
				return err
			}

			resp, err := rt.service.AssessRisk(cmd.Context(), assessment.RiskRequest{
				Context:  text,
				Question: question,
			})
			if err != nil {
				return err
			}
			if resp.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
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

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the analysis text from a file")
	cmd.Flags().StringVarP(&question, "question", "q", "", "focus question recorded with the assessment")
	cmd.Flags().StringVarP(&format, "format", "o", "csv", "output format: csv or json")

	return cmd
}
