package ui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Fire colour palette 🔥
var (
	// Core fire colours (dark to bright)
	fireYellow  = lipgloss.Color("#FFD700") // Bright yellow
	fireOrange  = lipgloss.Color("#FF8C00") // Deep orange
	fireRed     = lipgloss.Color("#FF4500") // Orange-red
	fireCrimson = lipgloss.Color("#DC143C") // Deep crimson
	emberGlow   = lipgloss.Color("#8B0000") // Dark ember red

	// Accent colours
	warmGray = lipgloss.Color("#B8860B") // Dark goldenrod for subtle text
)

// FileDone reports one finished file in a batch
type FileDone struct {
	Path   string
	Vector []float64
	Err    error
}

// BatchComplete signals that every file in the batch has been processed
type BatchComplete struct {
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// progressQuitMsg is sent when it's time to quit after showing completion
type progressQuitMsg struct{}

// failure is a file that could not be vectorised
type failure struct {
	path string
	err  error
}

// Model implements the Bubbletea model for batch extraction
type Model struct {
	progressBar progress.Model

	total       int
	configIndex int
	configDesc  string

	done       int
	failures   []failure
	lastPath   string
	lastVector []float64

	complete  *BatchComplete
	startTime time.Time

	width           int
	completionDelay time.Duration
	quitting        bool
}

// NewModel creates a progress model for a batch of total files
func NewModel(total, configIndex int, configDesc string) *Model {
	// Fire gradient: deep red → orange → yellow
	p := progress.New(
		progress.WithGradient(string(fireCrimson), string(fireYellow)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return &Model{
		progressBar:     p,
		total:           total,
		configIndex:     configIndex,
		configDesc:      configDesc,
		startTime:       time.Now(),
		completionDelay: 500 * time.Millisecond,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(10, min(msg.Width-30, 50))
		return m, nil

	case FileDone:
		m.done++
		m.lastPath = msg.Path
		if msg.Err != nil {
			m.failures = append(m.failures, failure{path: msg.Path, err: msg.Err})
		} else {
			m.lastVector = msg.Vector
		}
		return m, nil

	case BatchComplete:
		m.complete = &msg
		m.quitting = true
		return m, tea.Tick(m.completionDelay, func(t time.Time) tea.Msg {
			return progressQuitMsg{}
		})

	case progressQuitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.complete != nil {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.complete != nil {
		return m.renderComplete()
	}
	return m.renderProgress()
}

// Done returns the number of files processed so far
func (m *Model) Done() int {
	return m.done
}

// Failed returns the number of files that could not be vectorised
func (m *Model) Failed() int {
	return len(m.failures)
}

func (m *Model) renderProgress() string {
	var s strings.Builder

	m.renderHeader(&s)

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}
	s.WriteString("Progress: ")
	s.WriteString(m.progressBar.ViewAs(percent))
	s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
	s.WriteString("\n\n")

	elapsed := time.Since(m.startTime)
	var eta time.Duration
	if percent > 0 {
		eta = time.Duration(float64(elapsed)/percent) - elapsed
	}
	s.WriteString(lipgloss.NewStyle().Faint(true).Render(
		fmt.Sprintf("Files: %d / %d  │  Failed: %d  │  Elapsed: %s  │  ETA: %s",
			m.done, m.total, len(m.failures), formatDuration(elapsed), formatDuration(eta))))
	s.WriteString("\n")

	if m.lastPath != "" {
		s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render(filepath.Base(m.lastPath)))
		s.WriteString("\n")
	}

	if len(m.lastVector) > 0 {
		s.WriteString("\n")
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Last vector:"))
		s.WriteString("\n")
		s.WriteString(renderVector(m.lastVector, m.vectorWidth()))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(fireRed).
		Padding(1, 2).
		Render(s.String())
}

func (m *Model) renderComplete() string {
	var s strings.Builder

	m.renderHeader(&s)

	title := lipgloss.NewStyle().Bold(true).Foreground(fireYellow)
	if m.complete.Failed > 0 {
		title = title.Foreground(fireCrimson)
	}
	s.WriteString(title.Render("✓ Batch Complete"))
	s.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Faint(true)
	highlight := lipgloss.NewStyle().Foreground(fireOrange)

	s.WriteString(fmt.Sprintf("  %s%d\n", labelStyle.Render(fmt.Sprintf("%-12s", "Vectorised:")), m.complete.Succeeded))
	s.WriteString(fmt.Sprintf("  %s%d\n", labelStyle.Render(fmt.Sprintf("%-12s", "Failed:")), m.complete.Failed))
	s.WriteString(fmt.Sprintf("  %s%s", labelStyle.Render(fmt.Sprintf("%-12s", "Total time:")), highlight.Render(formatDuration(m.complete.Duration))))

	if len(m.failures) > 0 {
		s.WriteString("\n\n")
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(fireOrange).Render("Failures"))
		for _, f := range m.failures {
			s.WriteString("\n  ")
			s.WriteString(lipgloss.NewStyle().Foreground(warmGray).Render(filepath.Base(f.path)))
			s.WriteString("  ")
			s.WriteString(lipgloss.NewStyle().Faint(true).Render(f.err.Error()))
		}
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(fireOrange).
		Padding(1, 2).
		Render(s.String()) + "\n"
}

func (m *Model) renderHeader(s *strings.Builder) {
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(fireYellow).Render("Jivevec 🔥"))
	s.WriteString("\n")
	label := fmt.Sprintf("Configuration %d", m.configIndex)
	if m.configDesc != "" {
		label += ": " + m.configDesc
	}
	s.WriteString(lipgloss.NewStyle().Foreground(fireOrange).Render(label))
	s.WriteString("\n\n")
}

func (m *Model) vectorWidth() int {
	width := m.width - 8
	if width < 10 || width > 100 {
		return 60
	}
	return width
}

// Helper functions

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// renderVector draws the magnitudes of a feature vector as a fire-coloured
// one-row bar chart, sampling coefficients to fit width
func renderVector(vec []float64, width int) string {
	if len(vec) == 0 || width <= 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	fireColors := []lipgloss.Color{emberGlow, fireCrimson, fireRed, fireOrange, fireYellow}

	stride := len(vec) / width
	if stride == 0 {
		stride = 1
	}

	maxMag := 0.0
	for _, v := range vec {
		maxMag = math.Max(maxMag, math.Abs(v))
	}
	if maxMag == 0 {
		maxMag = 1.0
	}

	var result strings.Builder
	for i, n := 0, 0; i < len(vec) && n < width; i, n = i+stride, n+1 {
		normalised := math.Abs(vec[i]) / maxMag
		blockIdx := min(int(normalised*float64(len(blocks)-1)), len(blocks)-1)
		colorIdx := min(int(normalised*float64(len(fireColors)-1)), len(fireColors)-1)

		result.WriteString(lipgloss.NewStyle().
			Foreground(fireColors[colorIdx]).
			Render(string(blocks[blockIdx])))
	}

	return result.String()
}
