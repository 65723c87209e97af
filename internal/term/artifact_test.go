package term

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rvilkov/loglab/internal/stream"
)

func TestResolveArtifact(t *testing.T) {
	got := ResolveArtifact("/logs", "cache/plot.png")
	if got != filepath.Join("/logs", "cache", "plot.png") {
		t.Errorf("resolved = %q", got)
	}

	abs := filepath.Join(string(filepath.Separator), "elsewhere", "plot.png")
	if got := ResolveArtifact("/logs", abs); got != abs {
		t.Errorf("absolute path rewritten to %q", got)
	}
}

func TestArtifactsMissingFile(t *testing.T) {
	var out strings.Builder
	a := NewArtifacts(t.TempDir(), ArtifactAnnounce, &out)
	a.Show(stream.Record{"cache_path": "missing.png"})

	if !strings.Contains(out.String(), "artifact not found") {
		t.Errorf("output = %q, want a not-found note", out.String())
	}
}

func TestArtifactsAnnounceImage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plot.png"), []byte("png"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out strings.Builder
	a := NewArtifacts(dir, ArtifactAnnounce, &out)
	a.Show(stream.Record{"cache_path": "plot.png"})

	if !strings.Contains(out.String(), "image: ") {
		t.Errorf("output = %q, want image announcement", out.String())
	}
	if !strings.Contains(out.String(), "plot.png") {
		t.Errorf("output = %q, want resolved path", out.String())
	}
}

func TestArtifactsNonImageFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data.csv"), []byte("a,b"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out strings.Builder
	a := NewArtifacts(dir, ArtifactOpen, &out)
	a.open = func(string) error { t.Error("opener called for non-image"); return nil }
	a.Show(stream.Record{"cache_path": "data.csv"})

	if !strings.Contains(out.String(), "file: ") {
		t.Errorf("output = %q, want file announcement", out.String())
	}
}

func TestArtifactsOpenUsesOpener(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plot.png"), []byte("png"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var opened string
	var out strings.Builder
	a := &Artifacts{
		logDir: dir,
		mode:   ArtifactOpen,
		out:    &out,
		open:   func(p string) error { opened = p; return nil },
	}
	a.Show(stream.Record{"cache_path": "plot.png"})

	if opened != filepath.Join(dir, "plot.png") {
		t.Errorf("opened = %q", opened)
	}
	if !strings.Contains(out.String(), "opened plot.png") {
		t.Errorf("output = %q", out.String())
	}
}

func TestArtifactsIgnoresRecordsWithoutCachePath(t *testing.T) {
	var out strings.Builder
	a := NewArtifacts(t.TempDir(), ArtifactAnnounce, &out)
	a.Show(stream.Record{"message": "no artifact"})
	if out.Len() != 0 {
		t.Errorf("output = %q, want nothing", out.String())
	}
}
