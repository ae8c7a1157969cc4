// Package report renders an evaluated experiment for terminals, JSON
// consumers and Markdown documents.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mwiater/abplay/internal/abtest"
	"github.com/mwiater/abplay/internal/appconfig"
	"github.com/mwiater/abplay/internal/summary"
	"github.com/mwiater/abplay/internal/util"
)

// Report pairs a result with its narrative summary.
type Report struct {
	Name    string          `json:"name,omitempty"`
	Result  abtest.Result   `json:"result"`
	Summary summary.Summary `json:"summary"`
}

// New builds the report for res.
func New(name string, res abtest.Result) Report {
	return Report{Name: name, Result: res, Summary: summary.Build(res)}
}

// Render dispatches on format (text, json or markdown). width is used by
// the text renderer only.
func Render(r Report, format string, width int) (string, error) {
	switch format {
	case appconfig.FormatJSON:
		data, err := RenderJSON(r)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case appconfig.FormatMarkdown:
		return RenderMarkdown(r), nil
	case appconfig.FormatText, "":
		return RenderText(r, width), nil
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}
}

// RenderJSON returns the indented JSON document for r.
func RenderJSON(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

// RenderMarkdown returns r as a Markdown section with a metrics table.
func RenderMarkdown(r Report) string {
	res := r.Result
	var b strings.Builder

	title := "A/B Test Result"
	if r.Name != "" {
		title = fmt.Sprintf("A/B Test Result: %s", r.Name)
	}
	fmt.Fprintf(&b, "## %s\n\n", title)
	b.WriteString("| Metric | Control (A) | Variant (B) |\n")
	b.WriteString("|---|---|---|\n")
	fmt.Fprintf(&b, "| Sample size | %d | %d |\n", res.SampleSizeA, res.SampleSizeB)
	fmt.Fprintf(&b, "| Conversions | %d | %d |\n", res.ConversionsA, res.ConversionsB)
	fmt.Fprintf(&b, "| Conversion rate | %s | %s |\n\n", util.Percent(res.ConversionRateA, 2), util.Percent(res.ConversionRateB, 2))

	b.WriteString("| Statistic | Value |\n")
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| Absolute lift | %s |\n", util.SignedPercent(res.AbsoluteLift, 2))
	fmt.Fprintf(&b, "| Relative lift | %s |\n", util.SignedPercent(res.RelativeLift, 2))
	fmt.Fprintf(&b, "| Pooled proportion | %.4f |\n", res.PooledProportion)
	fmt.Fprintf(&b, "| Standard error | %.5f |\n", res.StandardError)
	fmt.Fprintf(&b, "| Z-score | %.3f |\n", res.ZScore)
	fmt.Fprintf(&b, "| p-value | %.4f |\n", res.PValue)
	fmt.Fprintf(&b, "| Alternative | %s |\n", res.Alternative)
	fmt.Fprintf(&b, "| Significant at α = %.2f | %s |\n\n", res.Alpha, yesNo(res.IsSignificant))

	fmt.Fprintf(&b, "**%s**\n\n%s\n\n> %s\n", r.Summary.Headline, r.Summary.Explanation, r.Summary.Recommendation)
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// Export writes r to path in the given format.
func Export(path, format string, r Report) error {
	out, err := Render(r, format, 0)
	if err != nil {
		return err
	}
	if err := util.WriteFile(path, []byte(out)); err != nil {
		return fmt.Errorf("write report %q: %w", path, err)
	}
	return nil
}
