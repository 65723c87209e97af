package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rvilkov/loglab/internal/cli"
	"github.com/rvilkov/loglab/internal/cloud"
)

func newFetchCmd() *cobra.Command {
	var (
		out  string
		list bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <s3://bucket/key | gs://bucket/key> [dest]",
		Short: "Download a remote log file for local viewing",
		Long: `Fetch downloads a log object from S3 or GCS so it can be tailed,
indexed, or exported locally. Objects ending in .gz or .zst are
decompressed on the way down. With --list, keys under the given
prefix are listed instead of downloaded.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				out = args[1]
			}
			return runFetch(args[0], out, list)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "local destination path (default: object basename)")
	cmd.Flags().BoolVar(&list, "list", false, "list objects under the prefix instead of downloading")
	return cmd
}

func runFetch(rawURL, out string, list bool) error {
	scheme, bucket, key, err := cloud.ParseURL(rawURL)
	if err != nil {
		return cli.NewUsageError(err.Error())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend, err := cloud.NewBackend(ctx, scheme, bucket)
	if err != nil {
		return cli.NewNetworkError(err.Error())
	}

	if list {
		objects, err := backend.List(ctx, key)
		if err != nil {
			return cli.NewNetworkError(err.Error())
		}
		if len(objects) == 0 {
			fmt.Fprintln(os.Stderr, "No objects found")
			return nil
		}
		for _, obj := range objects {
			fmt.Printf("%12d  %s\n", obj.Size, obj.Key)
		}
		return nil
	}

	if key == "" {
		return cli.NewUsageError("no object key in URL (or use --list to browse the bucket)")
	}
	if out == "" {
		out = cloud.DefaultLocalName(key)
	}

	n, err := cloud.Fetch(ctx, backend, key, out)
	if err != nil {
		return cli.NewNetworkError(err.Error())
	}
	fmt.Printf("fetched %s (%d bytes) to %s\n", key, n, out)
	return nil
}
