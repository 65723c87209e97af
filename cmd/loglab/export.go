package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rvilkov/loglab/internal/cli"
	"github.com/rvilkov/loglab/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		formatStr string
		gzipOut   bool
	)

	cmd := &cobra.Command{
		Use:   "export <file> <output>",
		Short: "Write a filtered snapshot of a log file",
		Long: `Export scans the file once, applies the filters, and writes the matching
records to a static output. The format is inferred from the output name:
.html for a self-contained page, .jsonl for a line-delimited copy,
.parquet for columnar analytics. A .gz suffix gzips html and jsonl output.`,
		Args: cobra.ExactArgs(2),
	}

	buildCriteria := filterFlags(cmd)
	cmd.Flags().StringVar(&formatStr, "format", "", "output format: html, jsonl or parquet (default: inferred)")
	cmd.Flags().BoolVar(&gzipOut, "gzip", false, "gzip the output (html and jsonl only)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		src, dst := args[0], args[1]

		format := export.Format(formatStr)
		if formatStr == "" {
			detected, detectedGzip, err := export.DetectFormat(dst)
			if err != nil {
				return cli.NewUsageError(err.Error())
			}
			format = detected
			gzipOut = gzipOut || detectedGzip
		}

		n, err := export.Export(src, dst, format, gzipOut, buildCriteria())
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return cli.NewNotFoundError(fmt.Sprintf("log file not found: %s", src))
			}
			return err
		}
		fmt.Printf("wrote %d records to %s\n", n, dst)
		return nil
	}

	return cmd
}
