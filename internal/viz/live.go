// Package viz renders the cloth in the terminal: a braille wireframe
// with an interactive bubbletea front end for tuning solver parameters
// while the simulation runs.
package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// snapshot is one frame of replay history: flattened positions plus the
// scalars shown in the sidebar.
type snapshot struct {
	frame  []float64
	time   float64
	strain float64
}

// Model runs the cloth and draws it. Parameter edits take effect on the
// next tick; position history is bounded and recycled through a frame
// pool so replay does not churn the allocator.
type Model struct {
	cloth  *cloth.Cloth
	params cloth.Params

	canvas *Canvas
	camera *Camera

	running  bool
	showHelp bool

	paramKeys []string
	selected  int

	strainHistory []float64
	history       []snapshot
	playHead      int
	pool          *sim.FramePool

	scratch []cloth.Vec3
}

func NewModel(c *cloth.Cloth, params cloth.Params) Model {
	keys := []string{"amplitude", "damping", "frequency", "gravity", "iterations"}
	sort.Strings(keys)

	return Model{
		cloth:         c,
		params:        params,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		camera:        NewCamera(),
		running:       true,
		paramKeys:     keys,
		strainHistory: make([]float64, 0, historyCapacity),
		history:       make([]snapshot, 0, historyCapacity),
		playHead:      -1,
		pool:          sim.NewFramePool(3 * c.VertexCount()),
		scratch:       make([]cloth.Vec3, c.VertexCount()),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "g":
			m.params.GravityEnabled = !m.params.GravityEnabled
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "tab":
			m.selected = (m.selected + 1) % len(m.paramKeys)
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// step advances one tick and records it in the replay ring.
func (m *Model) step() {
	m.cloth.Step(m.params)
	if !m.cloth.IsValid() {
		m.running = false
		return
	}

	strain := metrics.InstantMeanStrain(m.cloth)
	m.strainHistory = append(m.strainHistory, strain)
	if len(m.strainHistory) > historyCapacity {
		m.strainHistory = m.strainHistory[1:]
	}

	frame := m.pool.Get()
	for i, p := range m.cloth.Positions() {
		frame[3*i] = p.X
		frame[3*i+1] = p.Y
		frame[3*i+2] = p.Z
	}
	m.history = append(m.history, snapshot{frame: frame, time: m.cloth.Time(), strain: strain})
	if len(m.history) > historyCapacity {
		m.pool.Put(m.history[0].frame)
		m.history = m.history[1:]
	}
}

func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) reset() {
	m.cloth.Reset()
	m.strainHistory = m.strainHistory[:0]
	for _, snap := range m.history {
		m.pool.Put(snap.frame)
	}
	m.history = m.history[:0]
	m.playHead = -1
}

func (m *Model) adjustParam(dir int) {
	factor := 1.05
	if dir < 0 {
		factor = 0.95
	}
	switch m.paramKeys[m.selected] {
	case "amplitude":
		m.params.Amplitude *= factor
	case "damping":
		m.params.Damping = math.Min(1, m.params.Damping*factor)
	case "frequency":
		m.params.Frequency *= factor
	case "gravity":
		m.params.Gravity *= factor
	case "iterations":
		m.params.Iterations += dir
		if m.params.Iterations < 0 {
			m.params.Iterations = 0
		}
	}
}

func (m *Model) paramValue(key string) float64 {
	switch key {
	case "amplitude":
		return m.params.Amplitude
	case "damping":
		return m.params.Damping
	case "frequency":
		return m.params.Frequency
	case "gravity":
		return m.params.Gravity
	case "iterations":
		return float64(m.params.Iterations)
	}
	return 0
}

// viewPositions picks live or replay positions for rendering.
func (m *Model) viewPositions() ([]cloth.Vec3, float64, float64) {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		snap := m.history[m.playHead]
		for i := range m.scratch {
			m.scratch[i] = cloth.Vec3{X: snap.frame[3*i], Y: snap.frame[3*i+1], Z: snap.frame[3*i+2]}
		}
		return m.scratch, snap.time, snap.strain
	}
	strain := 0.0
	if len(m.strainHistory) > 0 {
		strain = m.strainHistory[len(m.strainHistory)-1]
	}
	return m.cloth.Positions(), m.cloth.Time(), strain
}

func (m Model) View() string {
	pos, t, strain := m.viewPositions()

	m.canvas.Clear()
	RenderCloth(m.canvas, pos, m.cloth.Constraints(), m.cloth.InvMasses(), m.cloth.Driven(), m.camera)
	canvasView := canvasStyle.Render(m.canvas.String())

	status := "RUNNING"
	switch {
	case m.playHead != -1 && m.running:
		status = "REPLAYING"
	case m.playHead != -1:
		status = "REPLAY PAUSED"
	case !m.running:
		status = "PAUSED"
	}

	var s strings.Builder
	cfg := m.cloth.Config()
	s.WriteString(headerStyle.Render(fmt.Sprintf("CLOTH %dx%d", cfg.ResX, cfg.ResY)) + "\n")
	s.WriteString(status + "\n\n")

	if len(m.strainHistory) > 1 {
		chart := asciigraph.Plot(m.strainHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Mean strain"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", t)) + "\n")
	s.WriteString(labelStyle.Render("Strain") + valueStyle.Render(fmt.Sprintf("%.4f", strain)) + "\n")
	gravity := "off"
	if m.params.GravityEnabled {
		gravity = fmt.Sprintf("%.2f", m.params.Gravity)
	}
	s.WriteString(labelStyle.Render("Gravity") + valueStyle.Render(gravity) + "\n")

	s.WriteString("\nPARAMETERS\n")
	for i, key := range m.paramKeys {
		line := fmt.Sprintf("%-10s %.3f", key, m.paramValue(key))
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nG:Gravity ?:Help\n[ ]:Replay ↑↓:Tune Tab:Select\nX/Y/Z:Rotate +/-:Zoom"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset cloth              ║
║  G        - Toggle gravity           ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  [ / ]    - Replay backward/forward  ║
║  X/Y/Z    - Rotate view (shift: -)   ║
║  + / -    - Zoom                     ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
