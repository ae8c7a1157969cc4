// Package summary turns an abtest.Result into business-facing text and
// serves the static explainer topics shown next to it.
package summary

import (
	"fmt"
	"math"
	"strings"

	"github.com/mwiater/abplay/internal/abtest"
)

// noDifferenceTolerance is the absolute lift below which the headline calls
// the groups indistinguishable.
const noDifferenceTolerance = 1e-6

// Decision is the action recommended for an experiment.
type Decision int

const (
	// DecisionContinueTesting means the evidence is insufficient either way.
	DecisionContinueTesting Decision = iota
	// DecisionShipVariant means B is significantly better than A.
	DecisionShipVariant
	// DecisionKeepControl means B is significantly worse than A.
	DecisionKeepControl
	// DecisionNoDifference is the degenerate significant-with-zero-lift case.
	DecisionNoDifference
)

func (d Decision) String() string {
	switch d {
	case DecisionShipVariant:
		return "ship variant B"
	case DecisionKeepControl:
		return "keep control A"
	case DecisionNoDifference:
		return "no detectable difference; keep control"
	default:
		return "continue testing"
	}
}

// MarshalText encodes the decision phrase.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a decision phrase produced by MarshalText.
func (d *Decision) UnmarshalText(text []byte) error {
	for _, candidate := range []Decision{DecisionContinueTesting, DecisionShipVariant, DecisionKeepControl, DecisionNoDifference} {
		if candidate.String() == string(text) {
			*d = candidate
			return nil
		}
	}
	return fmt.Errorf("summary: unknown decision %q", text)
}

// Summary is the narrative rendering of one result.
type Summary struct {
	Headline       string   `json:"headline"`
	Recommendation string   `json:"recommendation"`
	Explanation    string   `json:"explanation"`
	Decision       Decision `json:"decision"`
}

// String joins headline, explanation and recommendation into paragraphs.
func (s Summary) String() string {
	return strings.Join([]string{s.Headline, s.Explanation, s.Recommendation}, "\n\n")
}

// Decide applies the recommendation policy to a result.
func Decide(res abtest.Result) Decision {
	if !res.IsSignificant {
		return DecisionContinueTesting
	}
	switch {
	case res.AbsoluteLift > 0:
		return DecisionShipVariant
	case res.AbsoluteLift < 0:
		return DecisionKeepControl
	default:
		return DecisionNoDifference
	}
}

// Build maps res to its Summary. It never fails.
func Build(res abtest.Result) Summary {
	decision := Decide(res)
	return Summary{
		Headline:       headline(res),
		Explanation:    explanation(res),
		Recommendation: recommendation(decision),
		Decision:       decision,
	}
}

// headline rounds a negligible lift to "no observable difference" only when
// the result is not significant, so it never contradicts Decide.
func headline(res abtest.Result) string {
	lift := fmt.Sprintf("%+.2f%%", res.RelativeLift*100)
	negligible := math.Abs(res.AbsoluteLift) < noDifferenceTolerance
	if res.IsSignificant {
		negligible = res.AbsoluteLift == 0
	}
	switch {
	case negligible:
		return fmt.Sprintf("No observable difference between variant B and control A (%s)", lift)
	case res.AbsoluteLift > 0:
		return fmt.Sprintf("Variant B performs better than control A (%s)", lift)
	default:
		return fmt.Sprintf("Variant B performs worse than control A (%s)", lift)
	}
}

func explanation(res abtest.Result) string {
	verdict := "not statistically significant"
	if res.IsSignificant {
		verdict = "statistically significant"
	}
	return fmt.Sprintf("The result is %s at α = %.2f (%s, %s test)",
		verdict, res.Alpha, FormatPValue(res.PValue), res.Alternative)
}

func recommendation(d Decision) string {
	switch d {
	case DecisionShipVariant:
		return "Recommendation: ship variant B; it shows a statistically significant improvement over control A."
	case DecisionKeepControl:
		return "Recommendation: keep control A; variant B appears to hurt performance."
	case DecisionNoDifference:
		return "Recommendation: no detectable difference; keep control A or redesign the experiment."
	default:
		return "Recommendation: continue testing and collect more data before making a decision."
	}
}

// FormatPValue renders p for display, collapsing tiny values to "p < 0.001".
func FormatPValue(p float64) string {
	if p < 0.001 {
		return "p < 0.001"
	}
	return fmt.Sprintf("p = %.3f", p)
}
