package viz

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/webcloth/internal/metrics"
	"github.com/san-kum/webcloth/internal/raster"
	"github.com/san-kum/webcloth/internal/render"
	"github.com/san-kum/webcloth/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	statsWidth      = 40

	canvasPadX = 2
	canvasPadY = 1

	// world units per braille sub-pixel
	worldScale = 4.0

	gifCellW   = 8
	gifCellH   = 16
	gifEvery   = 2
	gifDelay   = 3
	springFreq = 6.0
)

// GIFPath is where a recording is written when it stops.
var GIFPath = "webcloth.gif"

type TickMsg time.Time

// Model hosts one simulator in the terminal. Mouse motion drives the
// pointer, clicks press it and the focus events enter and leave the surface.
type Model struct {
	sched  *sim.Scheduler
	canvas *Canvas
	theme  Theme
	styles styles
	preset string

	now           time.Duration
	width, height int
	running       bool
	showHelp      bool
	err           error

	dispHistory   []float64
	energyHistory []float64

	spring                     harmonica.Spring
	dispShown, dispVel         float64
	strengthShown, strengthVel float64

	recording bool
	anim      *raster.Animation
}

// NewModel wraps s; the web is rebuilt to fit the default terminal size
// until the first WindowSizeMsg arrives.
func NewModel(s *sim.Simulator, preset string) Model {
	theme := ThemeFor(s.Renderer().Palette)
	m := Model{
		sched:         sim.NewScheduler(s),
		theme:         theme,
		styles:        newStyles(theme),
		preset:        preset,
		running:       true,
		dispHistory:   make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		spring:        harmonica.NewSpring(harmonica.FPS(s.Options().FPS), springFreq, 1.0),
	}
	m.resize(width, height)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.sched.FrameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Simulator() *sim.Simulator { return m.sched.Simulator() }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := m.sched.Simulator()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "t":
			s.SetPalette(render.Next(s.Renderer().Palette))
			m.theme = ThemeFor(s.Renderer().Palette)
			m.styles = newStyles(m.theme)
		case "w":
			s.Wind().Enabled = !s.Wind().Enabled
		case "p":
			l := s.Lattice()
			s.Ripple(l.Width/2, l.Height/2, m.now)
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.anim = raster.NewAnimation(gifDelay)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.FocusMsg:
		s.PointerEnter(m.now)
	case tea.BlurMsg:
		s.PointerLeave()
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

// step advances one frame, or only redraws while paused.
func (m *Model) step() {
	s := m.sched.Simulator()
	if m.running && m.err == nil {
		m.now += m.sched.FrameInterval
		if err := m.sched.Advance(m.now, m.canvas); err != nil {
			m.err = err
			m.running = false
		}
	} else {
		s.Draw(m.canvas)
	}

	l := s.Lattice()
	m.dispHistory = appendCapped(m.dispHistory, metrics.MaxDisplacementOf(l))
	m.energyHistory = appendCapped(m.energyHistory, metrics.KineticEnergyOf(l))
	m.dispShown, m.dispVel = m.spring.Update(m.dispShown, m.dispVel, m.dispHistory[len(m.dispHistory)-1])
	m.strengthShown, m.strengthVel = m.spring.Update(m.strengthShown, m.strengthVel, s.Pointer().Strength)

	if m.recording && m.running && s.FrameCount()%gifEvery == 0 {
		m.anim.Add(m.canvas.Image(gifCellW, gifCellH))
	}
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// resize fits the canvas to the terminal and rebuilds the web for it.
func (m *Model) resize(termW, termH int) {
	m.width, m.height = termW, termH
	cols := termW - statsWidth - 2*canvasPadX - 2
	rows := termH - 2*canvasPadY
	if cols < 20 {
		cols = 20
	}
	if rows < 8 {
		rows = 8
	}

	m.canvas = NewCanvas(cols, rows)
	m.canvas.Scale = worldScale
	w, h := m.canvas.WorldSize()
	m.sched.Simulator().Resize(w, h, m.now)
	m.sched.Restart()
	m.sched.Simulator().Draw(m.canvas)
}

// reset rebuilds the web in place and clears the history.
func (m *Model) reset() {
	w, h := m.canvas.WorldSize()
	m.sched.Simulator().Resize(w, h, m.now)
	m.sched.Restart()
	m.dispHistory = m.dispHistory[:0]
	m.energyHistory = m.energyHistory[:0]
	m.dispShown, m.dispVel = 0, 0
	m.err = nil
	m.running = true
}

// toWorld maps a terminal cell to the world position at its centre.
func (m *Model) toWorld(col, row int) (float64, float64, bool) {
	cx, cy := col-canvasPadX, row-canvasPadY
	if cx < 0 || cy < 0 || cx >= m.canvas.Width || cy >= m.canvas.Height {
		return 0, 0, false
	}
	x := (float64(cx)*2 + 1) * m.canvas.Scale
	y := (float64(cy)*4 + 2) * m.canvas.Scale
	return x, y, true
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	s := m.sched.Simulator()
	x, y, inside := m.toWorld(msg.X, msg.Y)
	if !inside {
		if s.Pointer().OnSurface {
			s.PointerLeave()
		}
		return
	}
	if !s.Pointer().OnSurface {
		s.PointerEnter(m.now)
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			s.PointerDown(x, y, m.now)
		}
	case tea.MouseActionRelease:
		s.PointerUp()
	case tea.MouseActionMotion:
		s.PointerMove(x, y, m.now)
	}
}

func (m *Model) stopRecording() {
	m.recording = false
	if m.anim == nil || m.anim.Len() == 0 {
		return
	}
	defer m.anim.Reset()

	f, err := os.Create(GIFPath)
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := m.anim.Encode(f); err != nil {
		m.err = fmt.Errorf("write %s: %w", GIFPath, err)
	}
}

// View renders the canvas with the HUD on its right.
func (m Model) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.styles.canvas.Render(m.canvas.Render()), m.stats())
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.styles.failed.Render("ERROR " + m.err.Error())
	case m.recording:
		return m.styles.recording.Render(fmt.Sprintf("● REC %d", m.anim.Len()))
	case !m.running:
		return m.styles.paused.Render("PAUSED")
	}
	return m.styles.running.Render("RUNNING")
}

func (m Model) stats() string {
	s := m.sched.Simulator()
	l := s.Lattice()
	p := s.Renderer().Palette
	st := m.styles

	var b strings.Builder
	b.WriteString(GradientText("WEBCLOTH", p.Line, mix(p.Line, p.Overlay, 0.6)) + "\n")
	b.WriteString(st.header.Render(m.preset) + "\n")
	b.WriteString(m.status() + "\n")

	if len(m.dispHistory) > 1 {
		chart := asciigraph.Plot(m.dispHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Displacement"))
		b.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		b.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.1fs", m.now.Seconds()))
	row("Web", fmt.Sprintf("%dx%d", l.Cols, l.Rows))
	row("Displace", fmt.Sprintf("%.1f", m.dispShown))
	energy := 0.0
	if n := len(m.energyHistory); n > 0 {
		energy = m.energyHistory[n-1]
	}
	row("Energy", fmt.Sprintf("%.3f", energy))
	if due, ok := s.Ripples().NextDue(); ok {
		row("Ripples", fmt.Sprintf("%d pending, next %v", s.Ripples().Len(), (due - m.now).Round(time.Millisecond)))
	} else {
		row("Ripples", fmt.Sprintf("%d total", s.Spawned()))
	}
	if w := s.Wind(); w.Enabled {
		row("Wind", fmt.Sprintf("%+.2f", w.Force))
	} else {
		row("Wind", "off")
	}
	if ptr := s.Pointer(); ptr.OnSurface && ptr.Idle(m.now) {
		row("Pointer", ProgressBar(m.strengthShown, 10)+" idle")
	} else {
		row("Pointer", ProgressBar(m.strengthShown, 10))
	}
	row("Palette", p.Name)

	if m.showHelp {
		b.WriteString(st.help.Render(strings.Join([]string{
			"mouse    pull the web",
			"click    ripple from an empty spot",
			"space    pause / resume",
			"r        rebuild the web",
			"p        ripple from the centre",
			"w        toggle wind",
			"t        next palette",
			"g        record " + GIFPath,
			"q        quit",
		}, "\n")))
	} else {
		b.WriteString(st.help.Render("SP:Pause R:Reset P:Ripple\nW:Wind T:Theme G:Record\n?:Help Q:Quit"))
	}
	return st.stats.Render(b.String())
}
