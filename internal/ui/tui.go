package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aman-cerp/vlist/internal/telemetry"
	"github.com/aman-cerp/vlist/pkg/vlist"
)

// ScrollSource is the minimal surface a ScrollModel needs from a List: it
// never imports the List directly so the model can be driven by a fake in
// tests without constructing a real chunk store.
type ScrollSource interface {
	GetVisibleRange(scroll, viewport float64) (vlist.VisibleRange, error)
	TotalSize() float64
	Metrics() *telemetry.Snapshot
}

// ScrollModel is a bubbletea model that drives a List's viewport with the
// arrow keys, rendering the resolved visible range, resident-set metrics,
// and a sparkline of per-call resolve latency in microseconds.
type ScrollModel struct {
	source   ScrollSource
	viewport float64
	step     float64

	scroll  float64
	current vlist.VisibleRange
	err     error

	spark  *Sparkline
	bar    progress.Model
	styles Styles

	width  int
	height int
	quit   bool
}

// NewScrollModel creates a scroll demo model over source, simulating a
// viewport of viewportSize pixels/rows scrolled in increments of step.
func NewScrollModel(source ScrollSource, viewportSize, step float64) *ScrollModel {
	bar := progress.New(
		progress.WithSolidFill(ColorLime),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return &ScrollModel{
		source:   source,
		viewport: viewportSize,
		step:     step,
		spark:    NewSparkline(40),
		bar:      bar,
		styles:   DefaultStyles(),
		width:    80,
		height:   24,
	}
}

// Init implements tea.Model.
func (m *ScrollModel) Init() tea.Cmd {
	m.resolve()
	return nil
}

// Update implements tea.Model.
func (m *ScrollModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quit = true
			return m, tea.Quit
		case "up", "k":
			m.scrollBy(-m.step)
		case "down", "j":
			m.scrollBy(m.step)
		case "pgup":
			m.scrollBy(-m.viewport)
		case "pgdown", " ":
			m.scrollBy(m.viewport)
		case "home", "g":
			m.scroll = 0
			m.resolve()
		case "end", "G":
			m.scroll = m.source.TotalSize()
			m.resolve()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width - 20
		if m.bar.Width < 20 {
			m.bar.Width = 20
		}
	}
	return m, nil
}

func (m *ScrollModel) scrollBy(delta float64) {
	m.scroll += delta
	if m.scroll < 0 {
		m.scroll = 0
	}
	if total := m.source.TotalSize(); m.scroll > total {
		m.scroll = total
	}
	m.resolve()
}

func (m *ScrollModel) resolve() {
	start := time.Now()
	r, err := m.source.GetVisibleRange(m.scroll, m.viewport)
	m.spark.Add(float64(time.Since(start).Microseconds()))
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.current = r
}

// View implements tea.Model.
func (m *ScrollModel) View() string {
	if m.quit {
		return "Bye.\n"
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, m.renderRange())
	sections = append(sections, m.renderBar())
	sections = append(sections, m.renderMetrics())
	sections = append(sections, m.renderSparkline())

	content := strings.Join(sections, "\n")
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDarkGray)).
		Padding(0, 1).
		Width(contentWidth)

	title := m.styles.Header.Render("vlist scroll demo")
	hint := m.styles.Dim.Render("↑/↓ scroll · pgup/pgdown page · g/G ends · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, panel.Render(content), hint)
}

func (m *ScrollModel) renderRange() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("resolve error: %v", m.err))
	}
	return fmt.Sprintf("%s  items [%d, %d)  offsets [%.1f, %.1f)",
		m.styles.Label.Render("visible:"), m.current.Start, m.current.End,
		m.current.StartOffset, m.current.EndOffset)
}

func (m *ScrollModel) renderBar() string {
	total := m.source.TotalSize()
	frac := 0.0
	if total > 0 {
		frac = m.scroll / total
	}
	return fmt.Sprintf("%s  %.0f / %.0f", m.bar.ViewAs(frac), m.scroll, total)
}

func (m *ScrollModel) renderMetrics() string {
	snap := m.source.Metrics()
	if snap == nil {
		return m.styles.Dim.Render("no metrics recorded")
	}
	return m.styles.Label.Render(fmt.Sprintf(
		"hit rate: %.0f%%  evictions: %d  resident high-water: %d",
		snap.HitRate()*100, snap.Evictions, snap.ResidentHighWater))
}

func (m *ScrollModel) renderSparkline() string {
	label := m.styles.Dim.Render("resolve latency (µs) ─")
	return m.styles.Sparkline.Render(m.spark.Render()) + " " + label
}

// Ensure ScrollModel implements tea.Model.
var _ tea.Model = (*ScrollModel)(nil)
