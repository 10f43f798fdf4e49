package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/jivescope/internal/audio"
	"github.com/linuxmatters/jivescope/internal/cli"
	"github.com/linuxmatters/jivescope/internal/config"
)

// Fire colour palette shared with the CLI 🔥
var (
	fireYellow  = cli.FireYellow
	fireOrange  = cli.FireOrange
	fireRed     = cli.FireRed
	fireCrimson = cli.FireCrimson
	warmGray    = cli.WarmGray
)

// tickMsg paces the analysis: one pipeline frame per tick
type tickMsg time.Time

// Session describes the file being visualised
type Session struct {
	Title      string
	SampleRate int
	Channels   int
	Duration   time.Duration
	FPS        int
}

// Model is the Bubbletea model for live playback
type Model struct {
	pipeline  *audio.Pipeline
	transport Transport
	session   Session

	progressBar progress.Model
	smoothL     *Smoother
	smoothR     *Smoother
	left        []float64
	right       []float64

	// Timing
	startTime   time.Time
	lastTick    time.Time
	measuredFPS float64
	frames      int

	width    int
	quitting bool
}

// NewModel creates the playback UI. The caller starts the transport.
func NewModel(pipeline *audio.Pipeline, transport Transport, session Session) *Model {
	if session.FPS <= 0 {
		session.FPS = config.DefaultFPS
	}

	// Fire gradient: deep red → orange → yellow
	p := progress.New(
		progress.WithGradient(string(fireCrimson), string(fireYellow)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return &Model{
		pipeline:    pipeline,
		transport:   transport,
		session:     session,
		progressBar: p,
		smoothL:     NewSmoother(config.Smoothing),
		smoothR:     NewSmoother(config.Smoothing),
		startTime:   time.Now(),
	}
}

// Init starts the frame ticker
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.session.FPS), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(10, min(msg.Width-30, 60))
		return m, nil

	case tickMsg:
		if m.transport.Finished() {
			m.quitting = true
			return m, tea.Quit
		}
		m.advance(time.Time(msg))
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case " ", "p":
			m.transport.TogglePause()
		case "+", "=", "up":
			m.transport.SetVolume(m.transport.Volume() + config.VolumeStep)
		case "-", "_", "down":
			m.transport.SetVolume(m.transport.Volume() - config.VolumeStep)
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// advance runs one pipeline frame and refreshes the display levels
func (m *Model) advance(now time.Time) {
	out := m.pipeline.Frame()
	m.left = Levels(m.left, out.Left)
	m.right = Levels(m.right, out.Right)
	m.smoothL.Apply(m.left)
	m.smoothR.Apply(m.right)

	if !m.lastTick.IsZero() {
		if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
			// Exponential moving average keeps the readout steady
			if m.measuredFPS == 0 {
				m.measuredFPS = 1 / dt
			} else {
				m.measuredFPS = 0.9*m.measuredFPS + 0.1/dt
			}
		}
	}
	m.lastTick = now
	m.frames++
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(fireYellow).
		Render(cli.AppName)
	s.WriteString(title)
	if m.session.Title != "" {
		s.WriteString("  ")
		s.WriteString(lipgloss.NewStyle().Foreground(fireOrange).Render(m.session.Title))
	}
	s.WriteString("\n\n")

	m.renderPlayback(&s)
	s.WriteString("\n\n")
	m.renderSpectrumAndStats(&s)
	s.WriteString("\n\n")
	s.WriteString(lipgloss.NewStyle().Faint(true).Render("space pause  +/- volume  q quit"))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(fireRed).
		Padding(1, 2).
		Render(s.String())
}

func (m *Model) renderPlayback(s *strings.Builder) {
	pos := m.transport.Position()

	percent := 0.0
	if m.session.Duration > 0 {
		percent = min(1, float64(pos)/float64(m.session.Duration))
	}

	state := "▶ Playing"
	if !m.transport.IsPlaying() {
		state = "⏸ Paused "
	}

	s.WriteString(lipgloss.NewStyle().Foreground(fireOrange).Render(state))
	s.WriteString("  ")
	s.WriteString(m.progressBar.ViewAs(percent))
	s.WriteString("  ")
	s.WriteString(lipgloss.NewStyle().Faint(true).Render(
		fmt.Sprintf("%s / %s", formatDuration(pos), formatDuration(m.session.Duration))))
}

func (m *Model) renderSpectrumAndStats(s *strings.Builder) {
	spectrumWidth := 64
	if m.width > 40 {
		spectrumWidth = min(m.width-36, len(m.left), 128)
	}
	spectrumWidth = max(spectrumWidth, 1)

	var spectrum strings.Builder
	spectrum.WriteString(renderSpectrum(m.left, spectrumWidth, false))
	spectrum.WriteString("\n")
	spectrum.WriteString(renderSpectrum(m.right, spectrumWidth, true))

	labelStyle := lipgloss.NewStyle().Foreground(warmGray)
	valueStyle := lipgloss.NewStyle().Bold(true)
	stats := m.pipeline.Extractor.Stats()

	var rightCol strings.Builder
	row := func(label, value string) {
		rightCol.WriteString(labelStyle.Render(label))
		rightCol.WriteString(valueStyle.Render(value))
		rightCol.WriteString("\n")
	}
	row("FPS:      ", fmt.Sprintf("%.0f", m.measuredFPS))
	row("Volume:   ", fmt.Sprintf("%.0f%%", m.transport.Volume()*100))
	row("Window:   ", fmt.Sprintf("%d × %d bins", m.pipeline.Processor.WindowSize(), m.pipeline.Processor.Bins()))
	if m.session.SampleRate > 0 {
		row("Range:    ", m.frequencyRange())
	}
	row("Skipped:  ", fmt.Sprintf("%d", stats.FramesSkipped))
	row("Underrun: ", fmt.Sprintf("%d", stats.Underruns))

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		spectrum.String(),
		"  ",
		rightCol.String()))
}

// frequencyRange describes the span from the bottom of the first bin to the
// top of the last
func (m *Model) frequencyRange() string {
	p := m.pipeline.Processor
	lo, _ := p.BinFrequency(0, m.session.SampleRate)
	_, hi := p.BinFrequency(p.Bins()-1, m.session.SampleRate)
	return fmt.Sprintf("%s–%s", formatHz(lo), formatHz(hi))
}

// Summary returns a short report for printing once the alt screen exits
func (m *Model) Summary() string {
	var s strings.Builder
	dimLabel := lipgloss.NewStyle().Faint(true)
	stats := m.pipeline.Extractor.Stats()

	elapsed := time.Since(m.startTime)
	avgFPS := 0.0
	if elapsed > 0 {
		avgFPS = float64(m.frames) / elapsed.Seconds()
	}

	s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render("Played:   "), formatDuration(m.transport.Position())))
	s.WriteString(fmt.Sprintf("%s%d (%.1f fps)\n", dimLabel.Render("Frames:   "), m.frames, avgFPS))
	s.WriteString(fmt.Sprintf("%s%d pushed, %d skipped, %d underrun\n",
		dimLabel.Render("Samples:  "), stats.FramesPushed, stats.FramesSkipped, stats.Underruns))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(fireOrange).
		Padding(0, 1).
		Render(strings.TrimRight(s.String(), "\n"))
}

// Helper functions

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}
	total := int(d.Seconds())
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func formatHz(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.1f kHz", hz/1000)
	}
	return fmt.Sprintf("%.0f Hz", hz)
}

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// renderSpectrum draws levels (0.0-1.0) as two rows of fire-coloured block
// bars, width columns wide. Bars grow up from the bottom row, or down from
// the top row when down is set. Several levels sharing a column show their
// maximum.
func renderSpectrum(levels []float64, width int, down bool) string {
	if len(levels) == 0 || width <= 0 {
		return ""
	}

	columns := downsample(levels, width)
	rows := [2]strings.Builder{}

	for _, level := range columns {
		// Near row holds 0.0-0.5, far row 0.5-1.0
		near := cell(level*2, down)
		far := cell(level*2-1, down)

		style := lipgloss.NewStyle().Foreground(cli.GradientColor(level))
		if down {
			style = style.Reverse(true)
		}

		nearStr, farStr := " ", " "
		if near != ' ' {
			nearStr = style.Render(string(near))
		}
		if far != ' ' {
			farStr = style.Render(string(far))
		}

		if down {
			rows[0].WriteString(nearStr)
			rows[1].WriteString(farStr)
		} else {
			rows[0].WriteString(farStr)
			rows[1].WriteString(nearStr)
		}
	}

	return rows[0].String() + "\n" + rows[1].String()
}

// cell picks the block for a fill fraction of one row. Downward cells are
// drawn reversed, so they use the complementary block.
func cell(fill float64, down bool) rune {
	if fill <= 0 {
		return ' '
	}
	if fill >= 1 {
		return '█'
	}
	idx := int(fill * float64(len(blocks)-1))
	if down {
		idx = len(blocks) - 2 - idx
		if idx < 0 {
			return '█'
		}
	}
	return blocks[idx]
}

// downsample reduces levels to at most width columns, keeping the peak of
// each group
func downsample(levels []float64, width int) []float64 {
	if len(levels) <= width {
		return levels
	}

	out := make([]float64, width)
	for col := range out {
		lo := col * len(levels) / width
		hi := max((col+1)*len(levels)/width, lo+1)
		for _, v := range levels[lo:hi] {
			out[col] = max(out[col], v)
		}
	}
	return out
}
