package term

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rvilkov/loglab/internal/stream"
)

// Model is the bubbletea model for the interactive tail view. Records arrive
// through the ring from the follow loop; the model re-snapshots whenever the
// ring version changes.
type Model struct {
	ring     *Ring
	path     string
	criteria stream.Criteria

	lines       []stream.Record
	scrollOff   int
	follow      bool
	ringVersion int

	// search
	searching   bool
	searchInput string
	searchRegex *regexp.Regexp
	searchIdx   int   // current match index in filtered results
	matches     []int // indices into lines

	// gg detection
	lastGPress time.Time

	width  int
	height int

	quitting bool
}

type tuiTickMsg time.Time

func tuiTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tuiTickMsg(t)
	})
}

// NewModel creates a TUI model reading from ring.
func NewModel(ring *Ring, path string, criteria stream.Criteria) Model {
	return Model{
		ring:     ring,
		path:     path,
		criteria: criteria,
		follow:   true,
		width:    80,
		height:   24,
	}
}

// Init starts the tick timer.
func (m Model) Init() tea.Cmd {
	return tuiTick()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tuiTickMsg:
		if v := m.ring.Version(); v != m.ringVersion {
			m.lines = m.ring.Snapshot()
			m.ringVersion = v
			m.updateSearchMatches()
			if m.follow {
				m.scrollToBottom()
			}
		}
		return m, tuiTick()

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		m.follow = false
		m.scrollOff = clamp(m.scrollOff+1, 0, m.maxScroll())

	case "k", "up":
		m.follow = false
		m.scrollOff = clamp(m.scrollOff-1, 0, m.maxScroll())

	case "d":
		m.follow = false
		m.scrollOff = clamp(m.scrollOff+m.paneHeight()/2, 0, m.maxScroll())

	case "u":
		m.follow = false
		m.scrollOff = clamp(m.scrollOff-m.paneHeight()/2, 0, m.maxScroll())

	case "G":
		m.follow = true
		m.scrollToBottom()

	case "g":
		now := time.Now()
		if now.Sub(m.lastGPress) < 500*time.Millisecond {
			m.follow = false
			m.scrollOff = 0
			m.lastGPress = time.Time{}
		} else {
			m.lastGPress = now
		}

	case "f":
		m.follow = !m.follow
		if m.follow {
			m.scrollToBottom()
		}

	case "/":
		m.searching = true
		m.searchInput = ""

	case "n":
		m.nextMatch(1)

	case "N":
		m.nextMatch(-1)
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		re, err := regexp.Compile(m.searchInput)
		if err == nil {
			m.searchRegex = re
			m.updateSearchMatches()
			m.searchIdx = 0
			if len(m.matches) > 0 {
				m.follow = false
				m.scrollOff = clamp(m.matches[0]-m.paneHeight()/2, 0, m.maxScroll())
			}
		}

	case "esc":
		m.searching = false
		m.searchInput = ""
		m.searchRegex = nil
		m.matches = nil

	case "backspace":
		if len(m.searchInput) > 0 {
			m.searchInput = m.searchInput[:len(m.searchInput)-1]
		}

	default:
		if len(msg.String()) == 1 {
			m.searchInput += msg.String()
		}
	}

	return m, nil
}

func (m *Model) updateSearchMatches() {
	m.matches = nil
	if m.searchRegex == nil {
		return
	}
	for i, rec := range m.lines {
		if m.searchRegex.MatchString(rec.Message()) {
			m.matches = append(m.matches, i)
		}
	}
}

func (m *Model) nextMatch(dir int) {
	if len(m.matches) == 0 {
		return
	}
	m.searchIdx = (m.searchIdx + dir + len(m.matches)) % len(m.matches)
	m.follow = false
	m.scrollOff = clamp(m.matches[m.searchIdx]-m.paneHeight()/2, 0, m.maxScroll())
}

func (m *Model) scrollToBottom() {
	m.scrollOff = m.maxScroll()
}

func (m Model) paneHeight() int {
	// header(1) + blank(1) + status(1) = 3 lines overhead
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) maxScroll() int {
	max := len(m.lines) - m.paneHeight()
	if max < 0 {
		return 0
	}
	return max
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "loglab | " + m.path
	if m.criteria.Active() {
		title += " | " + m.criteria.String()
	}
	b.WriteString(tuiHeaderStyle.Render(title))
	b.WriteString("\n\n")

	paneH := m.paneHeight()
	start := clamp(m.scrollOff, 0, m.maxScroll())
	end := start + paneH
	if end > len(m.lines) {
		end = len(m.lines)
	}

	matchSet := make(map[int]bool, len(m.matches))
	for _, idx := range m.matches {
		matchSet[idx] = true
	}

	for i := start; i < end; i++ {
		line := formatLine(m.lines[i])
		if len(line) > m.width {
			line = line[:m.width]
		}
		if matchSet[i] {
			b.WriteString(tuiMatchStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	for i := end - start; i < paneH; i++ {
		b.WriteString("\n")
	}

	// status bar
	var status strings.Builder
	if m.searching {
		status.WriteString(tuiSearchBadge.Render("/" + m.searchInput))
	} else if m.searchRegex != nil {
		status.WriteString(tuiSearchBadge.Render(fmt.Sprintf("[%d/%d] /%s", m.searchIdx+1, len(m.matches), m.searchRegex.String())))
	}
	if m.follow {
		if status.Len() > 0 {
			status.WriteString(" ")
		}
		status.WriteString(tuiFollowBadge.Render("FOLLOW"))
	}
	if status.Len() > 0 {
		b.WriteString(padLeft(status.String(), m.width))
	}

	return b.String()
}

// formatLine reduces a record to one TUI line.
func formatLine(rec stream.Record) string {
	var parts []string
	if ts := clockTime(rec); ts != "" {
		parts = append(parts, ts)
	}
	if lvl := rec.Level(); lvl != "" {
		parts = append(parts, fmt.Sprintf("%-7s", strings.ToUpper(lvl)))
	}
	if s := rec.Section(); s != "" {
		parts = append(parts, "["+s+"]")
	}
	if msg := rec.Message(); msg != "" {
		parts = append(parts, msg)
	}
	return strings.Join(parts, " ")
}

var (
	tuiHeaderStyle = lipgloss.NewStyle().Bold(true)
	tuiMatchStyle  = lipgloss.NewStyle().Background(lipgloss.Color("226")).Foreground(lipgloss.Color("0"))
	tuiSearchBadge = lipgloss.NewStyle().Background(lipgloss.Color("226")).Foreground(lipgloss.Color("0")).Padding(0, 1)
	tuiFollowBadge = lipgloss.NewStyle().Background(lipgloss.Color("34")).Foreground(lipgloss.Color("15")).Padding(0, 1)
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func padLeft(s string, w int) string {
	n := lipgloss.Width(s)
	if n >= w {
		return s
	}
	return strings.Repeat(" ", w-n) + s
}
