package term

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rvilkov/loglab/internal/stream"
)

// ArtifactMode selects how a record's cache_path is surfaced.
type ArtifactMode int

const (
	// ArtifactAnnounce prints the resolved path.
	ArtifactAnnounce ArtifactMode = iota
	// ArtifactOpen hands the file to the system viewer.
	ArtifactOpen
)

var (
	artifactStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Faint(true)
	artifactMissStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Faint(true)
	artifactNoteStyle = lipgloss.NewStyle().Faint(true)
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// ResolveArtifact resolves a cache_path against the log file's directory.
// Absolute paths pass through untouched.
func ResolveArtifact(logDir, cachePath string) string {
	if filepath.IsAbs(cachePath) {
		return cachePath
	}
	return filepath.Join(logDir, cachePath)
}

// Artifacts surfaces files referenced by cache_path. The opener capability
// is probed once at construction, not per record.
type Artifacts struct {
	logDir string
	mode   ArtifactMode
	out    io.Writer

	// open launches the system viewer; swapped in tests.
	open func(path string) error
}

// NewArtifacts creates an artifact handler for records from a log file in
// logDir. When mode is ArtifactOpen but no system opener exists, the handler
// degrades to announcing paths.
func NewArtifacts(logDir string, mode ArtifactMode, out io.Writer) *Artifacts {
	a := &Artifacts{logDir: logDir, mode: mode, out: out}
	opener := systemOpener()
	if opener == nil && mode == ArtifactOpen {
		a.mode = ArtifactAnnounce
	}
	a.open = opener
	return a
}

// Show reports or opens the record's artifact. Records without cache_path
// are ignored; a missing file on disk is reported and never fatal.
func (a *Artifacts) Show(rec stream.Record) {
	cp := rec.CachePath()
	if cp == "" {
		return
	}
	path := ResolveArtifact(a.logDir, cp)

	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(a.out, artifactMissStyle.Render("artifact not found: "+path))
		return
	}

	if !imageExts[strings.ToLower(filepath.Ext(path))] {
		fmt.Fprintln(a.out, artifactStyle.Render("file: "+path))
		return
	}

	if a.mode == ArtifactOpen && a.open != nil {
		if err := a.open(path); err != nil {
			fmt.Fprintln(a.out, artifactNoteStyle.Render(fmt.Sprintf("could not open image: %v", err)))
			return
		}
		fmt.Fprintln(a.out, artifactNoteStyle.Render("opened "+filepath.Base(path)+" in system viewer"))
		return
	}

	fmt.Fprintln(a.out, artifactStyle.Render("image: "+path))
}

// systemOpener returns the platform file opener, or nil when none exists.
func systemOpener() func(string) error {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("open"); err == nil {
			return func(p string) error { return exec.Command("open", p).Run() }
		}
	case "windows":
		return func(p string) error { return exec.Command("cmd", "/c", "start", "", p).Run() }
	default:
		if _, err := exec.LookPath("xdg-open"); err == nil {
			return func(p string) error { return exec.Command("xdg-open", p).Run() }
		}
	}
	return nil
}
