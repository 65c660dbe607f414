package viz

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	tickInterval    = time.Second / 30
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live view: it steps a simulator on every tick and draws the
// particles together with the domains of the upper tree levels.
type Model struct {
	sim      *sim.Simulator
	title    string
	canvas   *Canvas
	camera   *Camera
	running  bool
	boxDepth int
	showHelp bool
	frame    sim.Frame
	tracked  []float64
	moves    []float64
	status   string
	err      error
}

func NewModel(s *sim.Simulator, title string) Model {
	cam := NewCamera()
	cam.Fit(s.Config().Domain)
	return Model{
		sim:      s,
		title:    title,
		canvas:   NewCanvas(width, height),
		camera:   cam,
		running:  true,
		boxDepth: 2,
		frame:    s.Frame(),
		tracked:  make([]float64, 0, historyCapacity),
		moves:    make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			m.step()
		case "b":
			if m.boxDepth < 0 {
				m.boxDepth = 2
			} else {
				m.boxDepth = -1
			}
		case "]":
			m.boxDepth++
		case "[":
			if m.boxDepth > 0 {
				m.boxDepth--
			}
		case "left", "h":
			m.camera.Rotate(-0.1, 0)
		case "right", "l":
			m.camera.Rotate(0.1, 0)
		case "up", "k":
			m.camera.Rotate(0, 0.1)
		case "down", "j":
			m.camera.Rotate(0, -0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "t":
			NextTheme()
		case "p":
			m.saveSVG()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && !m.finished() {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) finished() bool {
	steps := m.sim.Config().Steps
	return m.err != nil || (steps > 0 && m.sim.StepCount() >= steps)
}

func (m *Model) step() {
	if m.finished() {
		return
	}
	f, err := m.sim.Step()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.frame = f
	m.tracked = appendBounded(m.tracked, float64(f.Tracked))
	m.moves = appendBounded(m.moves, float64(f.Moved))
}

func appendBounded(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m *Model) saveSVG() {
	name := fmt.Sprintf("gravsim-%05d.svg", m.sim.StepCount())
	svg := SceneToSVG(NewScene(m.sim.Set(), m.sim.Tree(), m.boxDepth), m.camera, 800, 800, CurrentTheme)
	if err := os.WriteFile(name, []byte(svg), 0644); err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.status = "saved " + name
}

func (m Model) draw() {
	m.canvas.Clear()
	NewScene(m.sim.Set(), m.sim.Tree(), m.boxDepth).Draw(m.canvas, m.camera)
}

func (m Model) View() string {
	st := newStyles(CurrentTheme)
	m.draw()

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(st.warning.Render("FAILED: "+m.err.Error()) + "\n\n")
	case m.finished():
		s.WriteString(st.paused.Render("DONE") + "\n\n")
	case m.running:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.tracked) > 1 {
		chart := asciigraph.Plot(m.tracked, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("tracked"))
		s.WriteString(st.graph.Render(chart) + "\n")
		chart = asciigraph.Plot(m.moves, asciigraph.Height(3), asciigraph.Width(30), asciigraph.Caption("moved"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	f := m.frame
	s.WriteString(st.row("Step", fmt.Sprintf("%d", f.Step)))
	s.WriteString(st.row("Particles", fmt.Sprintf("%d (%d in tree)", f.Particles, f.Tracked)))
	s.WriteString(st.row("Tree mass", fmt.Sprintf("%.3f", f.TreeMass)))
	s.WriteString(st.row("COM", fmt.Sprintf("%.1f %.1f %.1f", f.CenterOfMass[0], f.CenterOfMass[1], f.CenterOfMass[2])))
	s.WriteString(st.row("Energy", fmt.Sprintf("%.4g", f.Energy)))
	s.WriteString(st.row("Nodes", fmt.Sprintf("%d / %d leaves", f.Nodes, f.Leaves)))
	s.WriteString(st.row("Depth", fmt.Sprintf("%d", f.Depth)))
	s.WriteString(st.row("Moved", fmt.Sprintf("%d", f.Moved)))
	s.WriteString(st.row("Escaped", fmt.Sprintf("%d", f.Escaped)))
	s.WriteString(st.row("Merged", fmt.Sprintf("%d", f.Merged)))
	if m.boxDepth >= 0 {
		s.WriteString(st.row("Boxes", fmt.Sprintf("depth ≤ %d", m.boxDepth)))
	} else {
		s.WriteString(st.row("Boxes", "off"))
	}
	if m.status != "" {
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}
	s.WriteString(st.help.Render("SP:Pause N:Step B:Boxes []:Depth\nHJKL:Rotate +-:Zoom T:Theme P:SVG ?:Help Q:Quit"))

	canvasView := st.canvas.Render(m.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
  Space    pause or resume
  N        advance one step
  B        toggle node boxes
  [ ]      fewer or more box levels
  H J K L  rotate the camera
  + -      zoom
  T        next theme
  P        write the scene to an SVG file
  ?        toggle this help
  Q        quit`

// RunLive runs the live view until the user quits.
func RunLive(s *sim.Simulator, title string) error {
	_, err := tea.NewProgram(NewModel(s, title), tea.WithAltScreen()).Run()
	return err
}
