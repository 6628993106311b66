package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/metrics"
	"github.com/san-kum/collidesim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxListed       = 6
	vectorScale     = 20
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

// Engine is the part of sim.Engine the live view needs.
type Engine interface {
	Snapshot() []body.Object
	Stats() sim.Stats
	Stop()
}

type TickMsg time.Time

type Options struct {
	Scenario      string
	Frame         time.Duration
	Duration      time.Duration
	Width, Height float64
	// OnFrame, when set, receives every snapshot the view draws.
	OnFrame func(snap []body.Object, elapsed time.Duration)
}

// Model polls the engine once per frame, draws from the copy and stops the
// engine when the configured duration has elapsed.
type Model struct {
	engine        Engine
	opts          Options
	start         time.Time
	elapsed       time.Duration
	scene         *Scene
	snapshot      []body.Object
	energyHistory []float64
	recording     bool
	frames        []*image.Paletted
	showHelp      bool
	done          bool
}

func NewModel(e Engine, opts Options) Model {
	if opts.Frame <= 0 {
		opts.Frame = 16 * time.Millisecond
	}
	return Model{
		engine:        e,
		opts:          opts,
		start:         time.Now(),
		scene:         NewScene(NewCanvas(width, height), opts.Width, opts.Height),
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Done reports whether the model stopped the engine.
func (m Model) Done() bool { return m.done }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.engine.Stop()
			m.done = true
			return m, tea.Quit
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "v":
			if m.scene.VectorScale > 0 {
				m.scene.VectorScale = 0
			} else {
				m.scene.VectorScale = vectorScale
			}
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		}
	case TickMsg:
		m.frame(time.Time(msg).Sub(m.start))
		if m.elapsed >= m.opts.Duration {
			m.engine.Stop()
			m.done = true
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) frame(elapsed time.Duration) {
	m.elapsed = elapsed
	m.snapshot = m.engine.Snapshot()
	m.scene.Draw(m.snapshot)

	m.energyHistory = append(m.energyHistory, metrics.KineticEnergy(m.snapshot))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	if m.opts.OnFrame != nil {
		m.opts.OnFrame(m.snapshot, elapsed)
	}
	if m.recording {
		m.captureFrame()
	}
}

func (m Model) View() string {
	theme := CurrentTheme
	canvasView := canvasStyle.Foreground(theme.Canvas).Render(m.scene.Canvas().String())
	label := labelStyle.Foreground(theme.Label)
	value := valueStyle.Foreground(theme.Value)

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.opts.Scenario), theme.Title, theme.TitleEnd) + "\n\n")

	progress := 0.0
	if m.opts.Duration > 0 {
		progress = float64(m.elapsed) / float64(m.opts.Duration)
	}
	status := StatusRunning.Render("RUNNING")
	if m.done {
		status = StatusStopped.Render("STOPPED")
	} else if m.recording {
		status = StatusRecording.Render("● REC")
	}
	s.WriteString(status + "  " + ProgressBar(progress, 20) + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Foreground(theme.Graph).Render(chart) + "\n\n")
	}

	st := m.engine.Stats()
	s.WriteString(label.Render("Time") + value.Render(fmt.Sprintf("%.2fs", m.elapsed.Seconds())) + "\n")
	s.WriteString(label.Render("Ticks") + value.Render(fmt.Sprintf("%d", st.Ticks)) + "\n")
	s.WriteString(label.Render("Contacts") + value.Render(fmt.Sprintf("%d (%d resolved)", st.Contacts, st.Resolved)) + "\n")
	p := metrics.Momentum(m.snapshot)
	s.WriteString(label.Render("Momentum") + value.Render(fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)) + "\n")

	s.WriteString("\n" + Separator(40) + "\n")
	for i, o := range m.snapshot {
		if i == maxListed {
			s.WriteString(Subtle.Render(fmt.Sprintf("  +%d more", len(m.snapshot)-maxListed)) + "\n")
			break
		}
		c, v := o.Center(), o.Velocity()
		line := fmt.Sprintf("%-6s (%6.1f, %6.1f) v(%5.2f, %5.2f)", o.Kind(), c.X, c.Y, v.X, v.Y)
		s.WriteString(MetricLabel.Render(line) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nQ:Quit T:Theme V:Vectors G:Record ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Q        - Stop and quit            ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  V        - Toggle velocity vectors  ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m *Model) captureFrame() {
	canvas := m.scene.Canvas()
	charW, charH := 8, 16
	imgW, imgH := canvas.Width*charW, canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := charW/2, charH/4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := int(canvas.Grid[row][col] - 0x2800)
			if pattern == 0 {
				continue
			}
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, 1)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	delay := int(m.opts.Frame / (10 * time.Millisecond))
	anim := gif.GIF{LoopCount: 0}
	for _, f := range m.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, max(delay, 1))
	}
	f, err := os.Create(fmt.Sprintf("collidesim_%d.gif", time.Now().Unix()))
	if err != nil {
		return
	}
	defer f.Close()
	_ = gif.EncodeAll(f, &anim)
}
