package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/ESG-Sentinel/internal/application/assessment"
)

func newMaterialityCommand(opts *rootOptions) *cobra.Command {
	var (
		file     string
		question string
	)

	cmd := &cobra.Command{
		Use:   "materiality [text...]",
		Short: "Analyze risk trends and double/triple materiality from a document",
		Example: `  esgsentinel materiality --file sustainability_report.txt
  echo "추락 사고가 증가하고 있다." | esgsentinel materiality`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}

			text, err := readContext(cmd, file, args)
			if err != nil {
				return err
			}

			resp, err := rt.service.AnalyzeMateriality(cmd.Context(), assessment.RiskRequest{
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
			fmt.Fprintln(cmd.OutOrStdout(), resp.Report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the analysis text from a file")
	cmd.Flags().StringVarP(&question, "question", "q", "", "focus question recorded with the analysis")

	return cmd
}
