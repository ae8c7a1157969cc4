package batch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/abplay/internal/appconfig"
	"github.com/mwiater/abplay/internal/report"
	"github.com/mwiater/abplay/internal/util"
)

const nameWidth = 20

var (
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	errorCell   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Render formats rows as a text table, JSON array or Markdown document.
func Render(rows []Row, format string) (string, error) {
	switch format {
	case appconfig.FormatJSON:
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal batch rows: %w", err)
		}
		return string(data), nil
	case appconfig.FormatMarkdown:
		return renderMarkdown(rows), nil
	case appconfig.FormatText, "":
		return renderTable(rows), nil
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}
}

func renderTable(rows []Row) string {
	var b strings.Builder
	header := fmt.Sprintf("%-*s %8s %8s %9s %8s %8s %-4s %s", nameWidth, "NAME", "CR(A)", "CR(B)", "LIFT", "Z", "P", "SIG", "DECISION")
	b.WriteString(tableHeader.Render(header))
	b.WriteString("\n")
	for _, row := range rows {
		name := util.TruncateRunes(row.Name, nameWidth-1)
		if row.Err != nil {
			fmt.Fprintf(&b, "%-*s %s\n", nameWidth, name, errorCell.Render("error: "+row.Err.Error()))
			continue
		}
		res := row.Report.Result
		sig := "no"
		if res.IsSignificant {
			sig = "yes"
		}
		fmt.Fprintf(&b, "%-*s %8s %8s %9s %8.3f %8.4f %-4s %s\n",
			nameWidth, name,
			util.Percent(res.ConversionRateA, 2),
			util.Percent(res.ConversionRateB, 2),
			util.SignedPercent(res.RelativeLift, 2),
			res.ZScore, res.PValue, sig,
			report.DecisionStyle(row.Report.Summary.Decision).Render(row.Report.Summary.Decision.String()),
		)
	}
	return b.String()
}

func renderMarkdown(rows []Row) string {
	var b strings.Builder
	b.WriteString("# A/B Test Batch\n\n")
	b.WriteString("| Name | CR(A) | CR(B) | Relative lift | Z | p | Significant | Decision |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, row := range rows {
		if row.Err != nil {
			fmt.Fprintf(&b, "| %s | – | – | – | – | – | – | error: %s |\n", row.Name, row.Err.Error())
			continue
		}
		res := row.Report.Result
		sig := "No"
		if res.IsSignificant {
			sig = "Yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %.3f | %.4f | %s | %s |\n",
			row.Name,
			util.Percent(res.ConversionRateA, 2),
			util.Percent(res.ConversionRateB, 2),
			util.SignedPercent(res.RelativeLift, 2),
			res.ZScore, res.PValue, sig, row.Report.Summary.Decision)
	}
	return b.String()
}
