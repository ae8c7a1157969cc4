package abplay

import (
	"github.com/mwiater/abplay/internal/abtest"
	"github.com/mwiater/abplay/internal/appconfig"
	"github.com/mwiater/abplay/internal/tui"
	"github.com/spf13/cobra"
)

// newPlaygroundCmd implements 'playground', the interactive form.
func newPlaygroundCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "playground",
		Short: "Open the interactive A/B test playground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alpha, alt, err := evaluationDefaults(a.config)
			if err != nil {
				return reportValidation(cmd.ErrOrStderr(), err)
			}
			return tui.StartPlayground(cmd.Context(), tui.Defaults{
				SampleSizeA:  1000,
				ConversionsA: 100,
				SampleSizeB:  1000,
				ConversionsB: 100,
				Alpha:        alpha,
				Alternative:  alt,
			})
		},
	}
}

// evaluationDefaults returns the configured alpha and alternative, failing on
// either rather than substituting a default.
func evaluationDefaults(cfg *appconfig.Config) (float64, abtest.Alternative, error) {
	alpha, err := cfg.SignificanceLevel()
	if err != nil {
		return 0, 0, err
	}
	alt, err := cfg.DefaultAlternative()
	if err != nil {
		return 0, 0, err
	}
	return alpha, alt, nil
}
