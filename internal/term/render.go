// Package term renders the filtered record stream for a terminal: styled
// blocks for plain tailing and a bubbletea model for the interactive view.
package term

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rvilkov/loglab/internal/stream"
)

var (
	timeStyle    = lipgloss.NewStyle().Faint(true)
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	runStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	runIDStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Faint(true)
	groupStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	extraStyle   = lipgloss.NewStyle().Faint(true)
	bannerStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
	filterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// levelStyles maps the conventional severity labels to their colors.
// Unknown levels render unstyled.
var levelStyles = map[string]lipgloss.Style{
	"ERROR":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	"WARN":    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	"WARNING": lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	"INFO":    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	"DEBUG":   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	"TRACE":   lipgloss.NewStyle().Faint(true),
}

var levelBorders = map[string]lipgloss.Color{
	"ERROR":   lipgloss.Color("9"),
	"WARN":    lipgloss.Color("11"),
	"WARNING": lipgloss.Color("11"),
	"INFO":    lipgloss.Color("12"),
	"DEBUG":   lipgloss.Color("14"),
}

// Renderer writes styled record blocks to out. Artifacts may be nil when
// cache_path handling is disabled.
type Renderer struct {
	out       io.Writer
	artifacts *Artifacts
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, artifacts *Artifacts) *Renderer {
	return &Renderer{out: out, artifacts: artifacts}
}

// Banner prints the tail header: target file and active filters.
func (r *Renderer) Banner(path string, c stream.Criteria) {
	msg := fmt.Sprintf("Tailing %s\nPress Ctrl+C to stop", path)
	fmt.Fprintln(r.out, bannerStyle.Render(msg))
	if c.Active() {
		fmt.Fprintln(r.out, filterStyle.Render("Active filters: "+c.String()))
	}
	fmt.Fprintln(r.out)
}

// Render writes one record as a bordered block, then any artifact note.
func (r *Renderer) Render(rec stream.Record) {
	border := lipgloss.Color("7")
	if c, ok := levelBorders[strings.ToUpper(rec.Level())]; ok {
		border = c
	}
	block := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString(headerLine(rec))
	if msg := rec.Message(); msg != "" {
		b.WriteString("\n")
		b.WriteString(msg)
	}
	if extra := rec.Extra(); extra != nil {
		data, err := json.MarshalIndent(extra, "", "  ")
		if err == nil {
			b.WriteString("\n")
			b.WriteString(extraStyle.Render(string(data)))
		}
	}

	fmt.Fprintln(r.out, block.Render(b.String()))
	if r.artifacts != nil {
		r.artifacts.Show(rec)
	}
	fmt.Fprintln(r.out)
}

// headerLine formats the timestamp, level and run metadata of a record.
func headerLine(rec stream.Record) string {
	var parts []string
	if ts := rec.TimeString(); ts != "" {
		parts = append(parts, timeStyle.Render(clockTime(rec)))
	}
	if lvl := rec.Level(); lvl != "" {
		parts = append(parts, renderLevel(lvl))
	}
	if s := rec.Section(); s != "" {
		parts = append(parts, sectionStyle.Render("["+s+"]"))
	}
	if n := rec.RunName(); n != "" {
		parts = append(parts, runStyle.Render("run:"+n))
	}
	if id := rec.RunID(); id != "" {
		parts = append(parts, runIDStyle.Render("id:"+id))
	}
	if g := rec.Group(); g != "" {
		parts = append(parts, groupStyle.Render("group:"+g))
	}
	return strings.Join(parts, " ")
}

func renderLevel(level string) string {
	up := strings.ToUpper(level)
	padded := fmt.Sprintf("%-7s", up)
	if style, ok := levelStyles[up]; ok {
		return style.Render(padded)
	}
	return padded
}

// clockTime reduces the record timestamp to HH:MM:SS for the header.
// Unparseable timestamps fall back to their raw prefix.
func clockTime(rec stream.Record) string {
	if ts, ok := rec.Time(); ok {
		return ts.Format("15:04:05")
	}
	raw := rec.TimeString()
	if len(raw) > 8 {
		return raw[:8]
	}
	return raw
}
