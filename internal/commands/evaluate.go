package abplay

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mwiater/abplay/internal/abtest"
	"github.com/mwiater/abplay/internal/appconfig"
	"github.com/mwiater/abplay/internal/logging"
	"github.com/mwiater/abplay/internal/report"
	"github.com/mwiater/abplay/internal/util"
	"github.com/spf13/cobra"
)

type evaluateOptions struct {
	sampleSizeA  int
	conversionsA int
	sampleSizeB  int
	conversionsB int
	output       string
	name         string
}

// newEvaluateCmd implements 'evaluate', which tests one experiment.
func newEvaluateCmd(a *app) *cobra.Command {
	var opts evaluateOptions
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one A/B experiment",
		Long: `Run a pooled two-proportion z-test for a control (A) and a variant (B) and
print conversion rates, lift, z-score, p-value and a recommendation.`,
		Example: `  abplay evaluate --n-a 1000 --c-a 100 --n-b 1000 --c-b 130
  abplay evaluate --n-a 1000 --c-a 100 --n-b 1000 --c-b 130 --alternative larger --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEvaluate(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.sampleSizeA, "n-a", 0, "sample size of control (A)")
	cmd.Flags().IntVar(&opts.conversionsA, "c-a", 0, "conversions of control (A)")
	cmd.Flags().IntVar(&opts.sampleSizeB, "n-b", 0, "sample size of variant (B)")
	cmd.Flags().IntVar(&opts.conversionsB, "c-b", 0, "conversions of variant (B)")
	cmd.Flags().StringVar(&opts.output, "output", "", "write the rendered report to this file as well")
	cmd.Flags().StringVar(&opts.name, "name", "", "optional experiment name shown in the report")
	for _, name := range []string{"n-a", "c-a", "n-b", "c-b"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) runEvaluate(out, errOut io.Writer, opts evaluateOptions) error {
	cfg := a.config
	alt, err := cfg.DefaultAlternative()
	if err != nil {
		return reportValidation(errOut, err)
	}

	in := abtest.Input{
		SampleSizeA:  opts.sampleSizeA,
		ConversionsA: opts.conversionsA,
		SampleSizeB:  opts.sampleSizeB,
		ConversionsB: opts.conversionsB,
		Alpha:        cfg.Alpha,
		Alternative:  alt,
	}
	res, err := abtest.Evaluate(in)
	if err != nil {
		logging.LogEvaluation("cli", in, nil, err)
		return reportValidation(errOut, err)
	}
	logging.LogEvaluation("cli", in, &res, nil)

	rep := report.New(opts.name, res)
	rendered, err := report.Render(rep, cfg.OutputFormat(), 0)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, rendered)

	if opts.output != "" {
		if err := util.WriteFile(opts.output, []byte(rendered)); err != nil {
			return fmt.Errorf("write output %q: %w", opts.output, err)
		}
	}
	return exportReport(cfg, rep)
}

func exportReport(cfg *appconfig.Config, rep report.Report) error {
	if cfg.ExportPath != "" {
		if err := report.Export(cfg.ExportPath, appconfig.FormatJSON, rep); err != nil {
			return err
		}
	}
	if cfg.ExportMarkdownPath != "" {
		if err := report.Export(cfg.ExportMarkdownPath, appconfig.FormatMarkdown, rep); err != nil {
			return err
		}
	}
	return nil
}

// reportValidation prints a field-specific hint for engine validation errors
// and passes err through.
func reportValidation(w io.Writer, err error) error {
	var verr *abtest.ValidationError
	if errors.As(err, &verr) {
		_, _ = color.New(color.FgRed, color.Bold).Fprintf(w, "invalid %s: ", verr.Field)
		_, _ = color.New(color.FgRed).Fprintf(w, "%v (got %v)\n", verr.Kind, verr.Value)
	}
	return err
}
