// Package settings provides an interactive TUI for editing spotimcp
// configuration. Non-sensitive fields persist to config.toml; the API
// credentials persist to .env.local.
package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"spotimcp/internal/config"
)

// viewState tracks the current interaction mode.
type viewState int

const (
	stateBrowsing viewState = iota
	stateEditing
	stateConfirmQuit
)

// model is the bubbletea model for the settings editor.
type model struct {
	cfg       config.Config
	fields    []config.FieldInfo
	baseline  map[string]string
	cursor    int
	state     viewState
	input     textinput.Model
	dirty     bool
	errMsg    string
	statusMsg string
	width     int
	height    int
}

func initialModel(cfg config.Config) model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 60

	fields := config.EffectiveFields(cfg)

	return model{
		cfg:      cfg,
		fields:   fields,
		baseline: snapshotValues(fields),
		state:    stateBrowsing,
		input:    ti,
	}
}

func snapshotValues(fields []config.FieldInfo) map[string]string {
	out := make(map[string]string, len(fields))
	for _, field := range fields {
		out[field.Key] = field.Value
	}
	return out
}

// Run launches the settings TUI as its own tea.Program.
func Run(cfg config.Config) error {
	p := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.state {
		case stateBrowsing:
			return m.handleBrowsingKey(msg)
		case stateEditing:
			return m.handleEditingKey(msg)
		case stateConfirmQuit:
			return m.handleConfirmQuitKey(msg)
		}
	}

	if m.state == stateEditing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		if m.dirty {
			m.state = stateConfirmQuit
			m.errMsg = ""
			m.statusMsg = ""
			return m, nil
		}
		return m, tea.Quit
	case "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.errMsg = ""
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
		m.errMsg = ""
	case "enter":
		m.startEditing()
		if m.state == stateEditing {
			return m, m.input.Focus()
		}
	case "r":
		m.resetField()
	case "s":
		m.save()
	}
	return m, nil
}

func (m *model) startEditing() {
	if len(m.fields) == 0 {
		m.errMsg = "No editable field selected"
		return
	}
	f := m.fields[m.cursor]
	m.state = stateEditing
	m.errMsg = ""
	m.statusMsg = ""
	m.input.SetValue(f.Value)
	m.input.CursorEnd()
	if f.Sensitive {
		m.input.EchoMode = textinput.EchoPassword
	} else {
		m.input.EchoMode = textinput.EchoNormal
	}
	m.input.Placeholder = fmt.Sprintf("Enter value for %s", f.Key)
}

func (m model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateBrowsing
		m.errMsg = ""
		m.input.Blur()
		return m, nil
	case "enter":
		return m.commitEdit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Live validation feedback.
	if err := config.ValidateField(m.fields[m.cursor].Key, m.input.Value()); err != nil {
		m.errMsg = err.Error()
	} else {
		m.errMsg = ""
	}
	return m, cmd
}

func (m model) commitEdit() (tea.Model, tea.Cmd) {
	key := m.fields[m.cursor].Key
	val := m.input.Value()
	changed := m.fields[m.cursor].Value != val

	if err := config.ValidateField(key, val); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	if changed {
		if m.fields[m.cursor].Sensitive {
			m.fields[m.cursor].Value = val
		} else {
			config.ApplyField(&m.cfg, key, val)
			m.fields[m.cursor].Value = val
		}
	}

	m.recomputeDirty()
	m.state = stateBrowsing
	m.errMsg = ""
	if changed {
		m.statusMsg = fmt.Sprintf("Updated %s", key)
	} else {
		m.statusMsg = fmt.Sprintf("No change for %s", key)
	}
	m.input.Blur()
	return m, nil
}

func (m *model) resetField() {
	if len(m.fields) == 0 {
		return
	}
	f := &m.fields[m.cursor]
	def := config.DefaultValueForField(f.Key)
	if def == "" {
		if f.Sensitive {
			m.errMsg = "No default for secrets"
		} else {
			m.errMsg = "No default value for this field"
		}
		return
	}
	config.ApplyField(&m.cfg, f.Key, def)
	f.Value = def
	f.Source = config.SourceDefault
	m.recomputeDirty()
	m.errMsg = ""
	m.statusMsg = fmt.Sprintf("Reset %s to default", f.Key)
}

func (m *model) save() {
	// Non-sensitive fields go to config.toml.
	if err := config.Save(m.cfg); err != nil {
		m.errMsg = fmt.Sprintf("Save failed: %v", err)
		return
	}

	// Secrets go to .env.local.
	failures := make([]string, 0)
	for i := range m.fields {
		f := m.fields[i]
		if !f.Sensitive {
			m.fields[i].Source = config.SourceConfigFile
			continue
		}
		envKey := config.EnvVarForField(f.Key)
		stored, err := config.LoadSecret(envKey)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", f.Key, err))
			continue
		}
		if strings.TrimSpace(stored) == strings.TrimSpace(f.Value) {
			continue
		}
		if strings.TrimSpace(f.Value) == "" {
			err = config.DeleteSecret(envKey)
		} else {
			err = config.SaveSecret(envKey, f.Value)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", f.Key, err))
			continue
		}
		m.fields[i].Source = config.SourceDotEnvLocal
	}

	m.baseline = snapshotValues(m.fields)
	m.recomputeDirty()
	if len(failures) > 0 {
		m.errMsg = "Save secrets failed for " + strings.Join(failures, "; ")
		m.statusMsg = ""
		return
	}
	m.errMsg = ""
	m.statusMsg = "Settings saved"
}

func (m model) handleConfirmQuitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.save()
		if m.errMsg != "" {
			return m, nil
		}
		return m, tea.Quit
	case "n", "N":
		return m, tea.Quit
	case "esc", "c":
		m.state = stateBrowsing
		m.statusMsg = ""
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) recomputeDirty() {
	for _, field := range m.fields {
		if field.Value != m.baseline[field.Key] {
			m.dirty = true
			return
		}
	}
	m.dirty = false
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("41")).
			Bold(true).
			Underline(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)

	selectedKeyStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("41")).
				Foreground(lipgloss.Color("0")).
				Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("spotimcp settings"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Edit API and player configuration."))
	b.WriteString("\n")

	rows := make([]string, 0, len(m.fields)+4)
	for i, f := range m.fields {
		marker := "  "
		keyCell := keyStyle.Width(26).Render(f.Key)
		if i == m.cursor {
			marker = "> "
			keyCell = selectedKeyStyle.Width(26).Render(f.Key)
		}
		rows = append(rows, fmt.Sprintf("%s%s %s %s",
			marker,
			keyCell,
			valueStyle.Width(34).Render(displayValue(f.Value, f.Sensitive)),
			sourceStyle.Render("("+string(f.Source)+")"),
		))
	}

	switch m.state {
	case stateEditing:
		rows = append(rows, "", mutedStyle.Render("Editing "+m.fields[m.cursor].Key), "  "+m.input.View())
	case stateConfirmQuit:
		rows = append(rows, "", errStyle.Render("Unsaved changes. Save before quitting? (y/n, esc to cancel)"))
	}
	if m.errMsg != "" {
		rows = append(rows, "", errStyle.Render(m.errMsg))
	}
	if m.statusMsg != "" {
		rows = append(rows, "", okStyle.Render(m.statusMsg))
	}

	b.WriteString(panelStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.controlsHint()))
	return b.String()
}

func (m model) controlsHint() string {
	switch m.state {
	case stateEditing:
		return "type value · enter confirm · esc cancel"
	case stateConfirmQuit:
		return "y save & quit · n discard & quit · c/esc cancel"
	default:
		return "up/down or j/k move · enter edit · r reset · s save · esc/q quit"
	}
}

func displayValue(value string, sensitive bool) string {
	if strings.TrimSpace(value) == "" {
		return "(not set)"
	}
	if sensitive {
		return "****"
	}
	return value
}
