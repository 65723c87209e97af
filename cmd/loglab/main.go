package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rvilkov/loglab/internal/cli"
	"github.com/rvilkov/loglab/internal/config"
)

var version = "dev"

// cfg holds file/env defaults, loaded once before command dispatch.
var cfg *config.Config

// jsonErrors switches error reporting to structured JSON on stderr.
var jsonErrors bool

func main() {
	os.Exit(run())
}

func run() int {
	if err := execute(); err != nil {
		cli.FormatError(os.Stderr, err, jsonErrors)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

func execute() error {
	cfg = config.Load()

	root := &cobra.Command{
		Use:           "loglab",
		Short:         "Live viewer for structured JSONL experiment logs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&jsonErrors, "json-errors", false, "report errors as structured JSON")

	root.AddCommand(newTailCmd())
	root.AddCommand(newRunsCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newFetchCmd())
	root.AddCommand(newCompletionCmd())
	return root.Execute()
}
