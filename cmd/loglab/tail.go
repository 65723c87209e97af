package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rvilkov/loglab/internal/cli"
	"github.com/rvilkov/loglab/internal/stream"
	"github.com/rvilkov/loglab/internal/term"
)

func newTailCmd() *cobra.Command {
	var (
		file          string
		intervalStr   string
		follow        bool
		jsonOutput    bool
		openArtifacts bool
		noArtifacts   bool
		tui           bool
	)

	cmd := &cobra.Command{
		Use:   "tail [file]",
		Short: "Stream log records to the terminal",
		Long: `Tail renders matching records as styled blocks as they are appended.
Existing records are shown first, then the file is followed until Ctrl+C.
Lines that are not valid JSON objects are skipped silently.`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
	}

	buildCriteria := filterFlags(cmd)
	cmd.Flags().StringVar(&file, "file", "", "log file to tail")
	cmd.Flags().StringVar(&intervalStr, "interval", "", "poll interval (default 250ms)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", true, "keep following after existing records")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit raw JSON lines instead of styled blocks")
	cmd.Flags().BoolVar(&openArtifacts, "open-artifacts", false, "open image artifacts with the system viewer")
	cmd.Flags().BoolVar(&noArtifacts, "no-artifacts", false, "ignore cache_path fields entirely")
	cmd.Flags().BoolVar(&tui, "tui", false, "interactive full-screen view with scrollback and search")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			file = args[0]
		}
		if file == "" {
			return cli.NewUsageError("no log file: pass a path or set tail.file in config")
		}
		interval, err := parseIntervalFlag(intervalStr, stream.DefaultInterval)
		if err != nil {
			return err
		}
		if openArtifacts && noArtifacts {
			return cli.NewUsageError("--open-artifacts and --no-artifacts are mutually exclusive")
		}
		opts := tailOpts{
			file:          file,
			interval:      interval,
			follow:        follow,
			jsonOutput:    jsonOutput,
			openArtifacts: openArtifacts,
			noArtifacts:   noArtifacts,
			criteria:      buildCriteria(),
		}
		if tui {
			return runTailTUI(opts)
		}
		return runTail(opts)
	}

	return cmd
}

type tailOpts struct {
	file          string
	interval      time.Duration
	follow        bool
	jsonOutput    bool
	openArtifacts bool
	noArtifacts   bool
	criteria      stream.Criteria
}

func runTail(opts tailOpts) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sink, banner := tailSink(opts)
	if banner != nil {
		banner()
	}

	if !opts.follow {
		_, err := stream.ScanAll(opts.file, opts.criteria, sink)
		return tailError(opts.file, err)
	}

	return tailError(opts.file, stream.Follow(ctx, opts.file, opts.criteria, opts.interval, false, sink))
}

// tailSink builds the per-record output function and an optional banner.
func tailSink(opts tailOpts) (stream.Sink, func()) {
	if opts.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		return func(rec stream.Record) { _ = enc.Encode(rec) }, nil
	}

	var artifacts *term.Artifacts
	if !opts.noArtifacts {
		mode := term.ArtifactAnnounce
		if opts.openArtifacts {
			mode = term.ArtifactOpen
		}
		artifacts = term.NewArtifacts(filepath.Dir(opts.file), mode, os.Stdout)
	}
	renderer := term.NewRenderer(os.Stdout, artifacts)
	return renderer.Render, func() { renderer.Banner(opts.file, opts.criteria) }
}

func runTailTUI(opts tailOpts) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ring := term.NewRing(0)
	errCh := make(chan error, 1)
	go func() {
		errCh <- stream.Follow(ctx, opts.file, opts.criteria, opts.interval, false, ring.Push)
	}()

	model := term.NewModel(ring, opts.file, opts.criteria)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		if err := <-errCh; err != nil {
			p.Quit()
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	cancel()
	return nil
}

// tailError maps missing-file failures to the not_found exit category.
func tailError(path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return cli.NewNotFoundError(fmt.Sprintf("log file not found: %s", path))
	}
	return err
}
