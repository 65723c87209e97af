package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rvilkov/loglab/internal/cli"
	"github.com/rvilkov/loglab/internal/runindex"
)

var (
	runNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	runDimStyle  = lipgloss.NewStyle().Faint(true)
)

func newRunsCmd() *cobra.Command {
	var (
		file       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "runs [file]",
		Short: "Summarize runs recorded in a log file",
		Long:  "Runs scans the whole file once and prints record counts and time bounds per run_name and run_id.",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				file = args[0]
			}
			if file == "" {
				return cli.NewUsageError("no log file: pass a path or set defaults.file in config")
			}
			return runRuns(file, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "log file to index")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func runRuns(file string, jsonOutput bool) error {
	summary, err := runindex.Build(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cli.NewNotFoundError(fmt.Sprintf("log file not found: %s", file))
		}
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	if len(summary.Runs) == 0 {
		fmt.Fprintln(os.Stderr, "No runs found")
		return nil
	}

	names := make([]string, 0, len(summary.Runs))
	for name := range summary.Runs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		run := summary.Runs[name]
		fmt.Printf("%s %s\n", runNameStyle.Render(name), runDimStyle.Render(fmt.Sprintf("(%d records)", run.Total)))
		for _, id := range run.RunIDs {
			span := ""
			if id.Earliest != "" {
				span = runDimStyle.Render(fmt.Sprintf("  %s .. %s", id.Earliest, id.Latest))
			}
			fmt.Printf("  %-20s %6d%s\n", id.RunID, id.Count, span)
		}
	}
	return nil
}
