package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rvilkov/loglab/internal/cli"
	"github.com/rvilkov/loglab/internal/stream"
)

// applyConfigDefaults sets flag values from config when the flag was not
// explicitly set on the command line. Flags > env > config > defaults.
// The config package already handles env > config, so we just need to
// check if the flag was changed and apply config if not.
func applyConfigDefaults(cmd *cobra.Command) {
	if cfg == nil {
		return
	}

	setDefault := func(name, value string) {
		if value != "" && !cmd.Flags().Changed(name) {
			if f := cmd.Flags().Lookup(name); f != nil {
				_ = f.Value.Set(value)
			}
		}
	}

	switch cmd.Name() {
	case "tail":
		setDefault("file", cfg.Tail.File)
		setDefault("interval", cfg.Tail.Interval)
		if cfg.Tail.OpenArtifacts && !cmd.Flags().Changed("open-artifacts") {
			_ = cmd.Flags().Set("open-artifacts", "true")
		}
		if cfg.Tail.NoArtifacts && !cmd.Flags().Changed("no-artifacts") {
			_ = cmd.Flags().Set("no-artifacts", "true")
		}
	case "serve":
		setDefault("listen", cfg.Serve.Listen)
		setDefault("interval", cfg.Serve.Interval)
	}
	setDefault("file", cfg.Defaults.File)
}

// filterFlags registers the shared record filter flags and returns a builder
// for the resulting criteria.
func filterFlags(cmd *cobra.Command) func() stream.Criteria {
	var (
		level   string
		section string
		runName string
		runID   string
		group   string
		since   time.Duration
	)

	cmd.Flags().StringVarP(&level, "level", "l", "", "exact level match (case-insensitive)")
	cmd.Flags().StringVarP(&section, "section", "s", "", "substring match on section")
	cmd.Flags().StringVarP(&runName, "run-name", "r", "", "substring match on run_name")
	cmd.Flags().StringVar(&runID, "run-id", "", "substring match on run_id")
	cmd.Flags().StringVarP(&group, "group", "g", "", "substring match on group")
	cmd.Flags().DurationVarP(&since, "since", "t", 0, "only records from the trailing window (e.g. 30s, 5m)")

	return func() stream.Criteria {
		c := stream.Criteria{
			Level:   level,
			Section: section,
			RunName: runName,
			RunID:   runID,
			Group:   group,
		}
		if since > 0 {
			c.Within = since
		}
		return c
	}
}

// parseIntervalFlag converts a duration string to a polling interval,
// falling back to def for empty input.
func parseIntervalFlag(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, cli.NewUsageError("invalid --interval: expected a positive duration like 250ms or 2s")
	}
	return d, nil
}
