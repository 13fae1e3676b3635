package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	signStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	exponentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	mantissaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Width(10)
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [value]",
		Short: "Interactively decode floats and words",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("inspect needs an interactive terminal; use decode or encode instead")
			}
			initial := ""
			if len(args) == 1 {
				initial = args[0]
			}
			return runInteractive(initial)
		},
	}
}

type inspectModel struct {
	err   error
	input textinput.Model
	info  wordInfo
	valid bool
}

func newInspectModel(initial string) *inspectModel {
	ti := textinput.New()
	ti.Placeholder = "3.14, nan, -inf or 0x7ff8_0000_0000_0001"
	ti.Prompt = "value: "
	ti.Width = 40
	ti.SetValue(initial)
	ti.Focus()

	m := &inspectModel{input: ti}
	m.decode()
	return m
}

func (m *inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectModel) decode() {
	v := m.input.Value()
	if strings.TrimSpace(v) == "" {
		m.err = nil
		m.valid = false
		return
	}
	w, err := parseInput(v)
	if err != nil {
		m.err = err
		m.valid = false
		return
	}
	m.err = nil
	m.info = describeWord(w)
	m.valid = true
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.decode()
	return m, cmd
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("NaN word inspector"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.valid:
		b.WriteString(m.renderInfo())
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("type a float or 0x word • esc quit"))
	return b.String()
}

func (m *inspectModel) renderInfo() string {
	i := m.info
	bits := fmt.Sprintf("%064b", uint64(i.Word))

	rows := []string{
		labelStyle.Render("word") + i.Word.String(),
		labelStyle.Render("bits") +
			signStyle.Render(bits[:1]) + " " +
			exponentStyle.Render(bits[1:1+exponentBits]) + " " +
			mantissaStyle.Render(bits[1+exponentBits:]),
		labelStyle.Render("sign") + signStyle.Render(fmt.Sprint(i.Sign)),
		labelStyle.Render("exponent") + exponentStyle.Render(fmt.Sprintf("%#x", i.Exponent)),
		labelStyle.Render("mantissa") + mantissaStyle.Render(fmt.Sprintf("%#013x", i.Mantissa)),
		labelStyle.Render("class") + i.Class.String(),
		labelStyle.Render("value") + i.Value,
		labelStyle.Render("valid") + i.validity(),
	}
	return strings.Join(rows, "\n")
}

func runInteractive(initial string) error {
	p := tea.NewProgram(newInspectModel(initial), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
