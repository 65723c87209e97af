package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rvilkov/loglab/internal/cli"
	"github.com/rvilkov/loglab/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		file        string
		listen      string
		intervalStr string
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the browser dashboard",
		Long: `Serve starts a local HTTP server with a live-streaming dashboard,
a runs index, and an artifact proxy for files referenced by cache_path.
Connected browsers receive new matching records over SSE.`,
		Args: cobra.MaximumNArgs(1),
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
			interval, err := parseIntervalFlag(intervalStr, web.DefaultStreamInterval)
			if err != nil {
				return err
			}
			return runServe(file, listen, interval)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "log file to serve")
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8765", "address to listen on")
	cmd.Flags().StringVar(&intervalStr, "interval", "", "stream poll interval (default 1s)")
	return cmd
}

func runServe(file, listen string, interval time.Duration) error {
	srv, err := web.NewServer(listen, file, interval, web.NewMetrics())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Fprintf(os.Stderr, "loglab serving %s on http://%s\n", srv.LogPath(), listen)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return cli.NewNetworkError(fmt.Sprintf("serve on %s: %v", listen, err))
		}
		return nil
	}

	fmt.Fprintln(os.Stderr, "shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
