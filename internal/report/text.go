package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/abplay/internal/abtest"
	"github.com/mwiater/abplay/internal/summary"
	"github.com/mwiater/abplay/internal/util"
)

const (
	defaultWidth = 80
	barWidth     = 40
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2).MarginRight(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	controlBar   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	variantBar   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	yesBadge     = lipgloss.NewStyle().Background(lipgloss.Color("28")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	noBadge      = lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	summaryStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("62")).PaddingLeft(1).MarginTop(1)
)

// Card renders one labelled metric box.
func Card(label, value string) string {
	return cardStyle.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
}

// SignificanceBadge renders the Yes/No significance marker.
func SignificanceBadge(significant bool, alpha float64) string {
	if significant {
		return yesBadge.Render(fmt.Sprintf("Significant at α = %.2f: Yes", alpha))
	}
	return noBadge.Render(fmt.Sprintf("Significant at α = %.2f: No", alpha))
}

// Bars renders a horizontal bar per group scaled to the larger rate.
func Bars(res abtest.Result) string {
	top := math.Max(res.ConversionRateA, res.ConversionRateB)
	scale := func(rate float64) int {
		if top <= 0 {
			return 0
		}
		return int(math.Round(rate / top * barWidth))
	}
	row := func(name string, rate float64, style lipgloss.Style) string {
		n := scale(rate)
		bar := style.Render(strings.Repeat("█", n)) + strings.Repeat(" ", barWidth-n)
		return fmt.Sprintf("%-3s %s %s", name, bar, util.Percent(rate, 2))
	}
	return row("A", res.ConversionRateA, controlBar) + "\n" + row("B", res.ConversionRateB, variantBar)
}

// RenderText draws the terminal view of r.
func RenderText(r Report, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	res := r.Result

	title := "A/B Test Result"
	if r.Name != "" {
		title += ": " + r.Name
	}

	conversion := lipgloss.JoinHorizontal(lipgloss.Top,
		Card("CR(A)", util.Percent(res.ConversionRateA, 1)),
		Card("CR(B)", util.Percent(res.ConversionRateB, 1)),
		Card("Lift", util.SignedPercent(res.RelativeLift, 1)),
	)
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		Card("Z-score", fmt.Sprintf("%.3f", res.ZScore)),
		Card("p-value", summary.FormatPValue(res.PValue)),
		Card("Alternative", res.Alternative.String()),
	)

	text := util.WrapToWidth(r.Summary.String(), width-2)

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(title),
		sectionStyle.Render("Conversion Metrics"),
		conversion,
		sectionStyle.Render("Statistics Results"),
		stats,
		SignificanceBadge(res.IsSignificant, res.Alpha),
		sectionStyle.Render("Comparison"),
		Bars(res),
		sectionStyle.Render("Summary"),
		summaryStyle.Render(text),
	)
}

// DecisionStyle colours a decision phrase for tables.
func DecisionStyle(d summary.Decision) lipgloss.Style {
	switch d {
	case summary.DecisionShipVariant:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	case summary.DecisionKeepControl:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	}
}
