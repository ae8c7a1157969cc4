// Package tui implements the interactive A/B test playground.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/abplay/internal/abtest"
	"github.com/mwiater/abplay/internal/logging"
	"github.com/mwiater/abplay/internal/report"
	"github.com/mwiater/abplay/internal/summary"
	"github.com/mwiater/abplay/internal/util"
)

// field indexes the focusable controls in form order.
type field int

const (
	fieldSampleA field = iota
	fieldConvA
	fieldSampleB
	fieldConvB
	fieldAlpha
	fieldAlternative
	fieldCount
)

var fieldLabels = [...]string{
	fieldSampleA: "Sample size (A)",
	fieldConvA:   "Conversions (A)",
	fieldSampleB: "Sample size (B)",
	fieldConvB:   "Conversions (B)",
	fieldAlpha:   "Alpha",
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Width(18)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	topicStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	sectionStyle = lipgloss.NewStyle().MarginTop(1)
)

// Defaults seeds the form.
type Defaults struct {
	SampleSizeA  int
	ConversionsA int
	SampleSizeB  int
	ConversionsB int
	Alpha        float64
	Alternative  abtest.Alternative
}

// model is the Bubble Tea model for the playground.
type model struct {
	inputs        []textinput.Model
	alternatives  []abtest.Alternative
	altIndex      int
	focus         field
	err           error
	report        *report.Report
	showLearn     bool
	width, height int
}

// initialModel builds the form with d's values filled in.
func initialModel(d Defaults) *model {
	values := [...]string{
		fieldSampleA: strconv.Itoa(d.SampleSizeA),
		fieldConvA:   strconv.Itoa(d.ConversionsA),
		fieldSampleB: strconv.Itoa(d.SampleSizeB),
		fieldConvB:   strconv.Itoa(d.ConversionsB),
		fieldAlpha:   strconv.FormatFloat(d.Alpha, 'f', -1, 64),
	}

	inputs := make([]textinput.Model, fieldAlternative)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.Width = 12
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[fieldSampleA].Focus()

	alts := abtest.Alternatives()
	altIndex := 0
	for i, a := range alts {
		if a == d.Alternative {
			altIndex = i
		}
	}

	return &model{
		inputs:       inputs,
		alternatives: alts,
		altIndex:     altIndex,
		focus:        fieldSampleA,
		width:        80,
	}
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case "enter":
			m.run()
			return m, nil
		case "?":
			m.showLearn = !m.showLearn
			return m, nil
		case "left", "right":
			if m.focus == fieldAlternative {
				step := 1
				if msg.String() == "left" {
					step = len(m.alternatives) - 1
				}
				m.altIndex = (m.altIndex + step) % len(m.alternatives)
				return m, nil
			}
		}
	}

	if m.focus == fieldAlternative {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *model) setFocus(f field) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if field(i) == f {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

// run parses the form and evaluates it, storing either a report or an error.
func (m *model) run() {
	in, err := m.input()
	if err != nil {
		m.err = err
		m.report = nil
		return
	}
	res, err := abtest.Evaluate(in)
	if err != nil {
		logging.LogEvaluation("playground", in, nil, err)
		m.err = err
		m.report = nil
		return
	}
	logging.LogEvaluation("playground", in, &res, nil)
	rep := report.New("", res)
	m.report = &rep
	m.err = nil
}

func (m *model) input() (abtest.Input, error) {
	ints := make([]int, fieldAlpha)
	for i := fieldSampleA; i < fieldAlpha; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(m.inputs[i].Value()))
		if err != nil {
			return abtest.Input{}, fmt.Errorf("%s must be a whole number", fieldLabels[i])
		}
		ints[i] = v
	}
	alpha, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldAlpha].Value()), 64)
	if err != nil {
		return abtest.Input{}, fmt.Errorf("%s must be a number", fieldLabels[fieldAlpha])
	}
	return abtest.Input{
		SampleSizeA:  ints[fieldSampleA],
		ConversionsA: ints[fieldConvA],
		SampleSizeB:  ints[fieldSampleB],
		ConversionsB: ints[fieldConvB],
		Alpha:        alpha,
		Alternative:  m.alternatives[m.altIndex],
	}, nil
}

// View implements tea.Model.
func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("A/B Test Playground"))
	b.WriteString("\n\n")

	for i := fieldSampleA; i < fieldAlternative; i++ {
		label := labelStyle.Render(fieldLabels[i])
		if m.focus == i {
			label = focusStyle.Render(labelStyle.Render(fieldLabels[i]))
		}
		b.WriteString(label + m.inputs[i].View() + "\n")
	}

	alt := fmt.Sprintf("< %s >", m.alternatives[m.altIndex])
	altLabel := labelStyle.Render("Alternative")
	if m.focus == fieldAlternative {
		altLabel = focusStyle.Render(altLabel)
		alt = focusStyle.Render(alt)
	}
	b.WriteString(altLabel + alt + "\n")

	b.WriteString(helpStyle.Render("\n tab/shift+tab move • ←/→ change alternative • enter run • ? learn • esc quit"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(sectionStyle.Render(errorStyle.Render("Error: " + m.err.Error())))
		b.WriteString("\n")
	}
	if m.report != nil {
		b.WriteString(sectionStyle.Render(report.RenderText(*m.report, m.width)))
		b.WriteString("\n")
	}
	if m.showLearn {
		b.WriteString(sectionStyle.Render(learnView(m.width)))
		b.WriteString("\n")
	}
	return b.String()
}

func learnView(width int) string {
	var parts []string
	parts = append(parts, titleStyle.Render("Learn the concepts"))
	for _, t := range summary.Topics() {
		body, _ := summary.Lookup(t)
		parts = append(parts, topicStyle.Render(t.Title()), util.WrapToWidth(body, width-2))
	}
	return strings.Join(parts, "\n\n")
}

// StartPlayground runs the playground until the user quits or ctx ends.
func StartPlayground(ctx context.Context, d Defaults) error {
	p := tea.NewProgram(initialModel(d), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run playground: %w", err)
	}
	return nil
}
