package abplay

import (
	"fmt"

	"github.com/mwiater/abplay/internal/batch"
	"github.com/mwiater/abplay/internal/util"
	"github.com/spf13/cobra"
)

// newBatchCmd implements 'batch', which evaluates a JSON file of experiments.
func newBatchCmd(a *app) *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Evaluate every experiment in a JSON file",
		Long: `Read {"experiments": [...]} from a JSON file, validate it against the batch
schema and evaluate each experiment independently. Experiments without alpha or
alternative use the configured defaults; invalid experiments are reported on
their own row without stopping the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config
			alt, err := cfg.DefaultAlternative()
			if err != nil {
				return reportValidation(cmd.ErrOrStderr(), err)
			}
			doc, err := batch.Load(input)
			if err != nil {
				return err
			}
			rows := batch.Run(doc, batch.Defaults{Alpha: cfg.Alpha, Alternative: alt})

			rendered, err := batch.Render(rows, cfg.OutputFormat())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			if output != "" {
				if err := util.WriteFile(output, []byte(rendered)); err != nil {
					return fmt.Errorf("write output %q: %w", output, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "path to the experiments JSON file")
	cmd.Flags().StringVar(&output, "output", "", "write the rendered results to this file as well")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
