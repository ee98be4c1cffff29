package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/webcloth/internal/config"
	"github.com/san-kum/webcloth/internal/sim"
)

var presetInfo = map[string]string{
	"default": "breeze and sway", "calm": "no wind, no ambient ripples", "stormy": "gusty, frequent ripples",
	"dense": "twice the particles", "taut": "stiff and quick to settle", "noise": "perlin rest shape on ink",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one tunable value on the config screen.
type param struct {
	name string
	step float64
	get  func(c *config.Config) float64
	set  func(c *config.Config, v float64)
}

var tunables = []param{
	{"damping", 0.01,
		func(c *config.Config) float64 { return c.Physics.Damping },
		func(c *config.Config, v float64) { c.Physics.Damping = v }},
	{"gravity", 0.05,
		func(c *config.Config) float64 { return c.Physics.Gravity },
		func(c *config.Config, v float64) { c.Physics.Gravity = v }},
	{"sway", 0.05,
		func(c *config.Config) float64 { return c.Physics.Sway },
		func(c *config.Config, v float64) { c.Physics.Sway = v }},
	{"stiffness", 0.02,
		func(c *config.Config) float64 { return c.Physics.Stiffness },
		func(c *config.Config, v float64) { c.Physics.Stiffness = v }},
	{"radius", 10,
		func(c *config.Config) float64 { return c.Pointer.InfluenceRadius },
		func(c *config.Config, v float64) { c.Pointer.InfluenceRadius = v }},
	{"amplitude", 1,
		func(c *config.Config) float64 { return c.Ripple.Amplitude },
		func(c *config.Config, v float64) { c.Ripple.Amplitude = v }},
	{"ambient", 0.01,
		func(c *config.Config) float64 { return c.Ripple.AmbientChance },
		func(c *config.Config, v float64) { c.Ripple.AmbientChance = v }},
}

type model struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	width, height int
	liveModel     Model
	hasSize       bool
}

func NewInteractiveApp() *model {
	return &model{
		state:   stateMenu,
		presets: config.ListPresets(),
		width:   width, height: height,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height, m.hasSize = msg.Width, msg.Height, true
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
		return m, nil
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		cfg, err := config.GetPreset(m.selected)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.cfg, m.err = cfg, nil
		m.state, m.paramCursor = stateConfig, 0
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	p := tunables[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				p.set(m.cfg, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state, m.err = stateMenu, nil
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(tunables)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", p.get(m.cfg))
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		p.set(m.cfg, p.get(m.cfg)-p.step)
	case "right", "l":
		p.set(m.cfg, p.get(m.cfg)+p.step)
	}
	return m, nil
}

// start validates the edited config and hands over to the live view.
func (m *model) start() tea.Cmd {
	opts, err := m.cfg.Options()
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	s := sim.New(float64(m.width), float64(m.height), opts)
	m.liveModel = NewModel(s, m.selected)
	if m.hasSize {
		m.liveModel.resize(m.width, m.height)
	}
	m.state = stateSim
	return m.liveModel.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#d38ca7")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b6b7c"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7dae7")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#d38ca7"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#d38ca7")).Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m model) header(title, sub string) string {
	return "\n\n    " + titleStyle.Render(title) + "\n    " + subStyle.Render(sub) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n"
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.header("WEBCLOTH", "reactive cloth background"))
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-10s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", name)), idleStyle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString(m.header(strings.ToUpper(m.selected), presetInfo[m.selected]))
	for i, p := range tunables {
		valStr := fmt.Sprintf("%8.3f", p.get(m.cfg))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-10s", p.name)), descStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", p.name)), idleStyle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive starts the preset menu.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus()).Run()
	return err
}

// RunLive opens the live view for s directly.
func RunLive(s *sim.Simulator, preset string) error {
	_, err := tea.NewProgram(NewModel(s, preset), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus()).Run()
	return err
}
