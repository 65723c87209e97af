// Package web serves the browser side of loglab: the live dashboard, the run
// index, a server-sent-events stream of accepted records, and an artifact
// proxy rooted at the log file's directory.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rvilkov/loglab/internal/runindex"
	"github.com/rvilkov/loglab/internal/stream"
)

// DefaultStreamInterval is the SSE poll interval when none is configured.
const DefaultStreamInterval = time.Second

// Server is the loglab dashboard HTTP server. The target log path is
// resolved once at construction; sessions never observe a retargeted path.
type Server struct {
	httpSrv  *http.Server
	logPath  string
	logDir   string
	interval time.Duration
	metrics  *Metrics

	activeStreams atomic.Int64
}

// NewServer creates a dashboard server bound to addr, streaming logPath.
func NewServer(addr, logPath string, interval time.Duration, metrics *Metrics) (*Server, error) {
	abs, err := filepath.Abs(logPath)
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}
	if interval <= 0 {
		interval = DefaultStreamInterval
	}

	s := &Server{
		logPath:  abs,
		logDir:   filepath.Dir(abs),
		interval: interval,
		metrics:  metrics,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /runs", s.handleRunsPage)
	mux.HandleFunc("GET /api/runs", s.handleRunsAPI)
	mux.HandleFunc("GET /stream", s.handleStream)
	mux.HandleFunc("GET /cache/{path...}", s.handleCache)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	s.httpSrv = &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 30 * time.Second,
		// no WriteTimeout: /stream connections are long-lived
		IdleTimeout: 120 * time.Second,
	}
	return s, nil
}

// LogPath returns the resolved target file.
func (s *Server) LogPath() string { return s.logPath }

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpSrv.ListenAndServe()
}

// Serve accepts connections on a listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpSrv.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTmpl.Execute(w, indexData{LogPath: s.logPath})
}

func (s *Server) handleRunsPage(w http.ResponseWriter, _ *http.Request) {
	summary := s.buildIndex()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = runsTmpl.Execute(w, runsData{LogPath: s.logPath, Summary: summary})
}

func (s *Server) handleRunsAPI(w http.ResponseWriter, _ *http.Request) {
	summary := s.buildIndex()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summary)
}

// buildIndex scans the whole file. A missing or unreadable file yields an
// empty index; the dashboard stays usable while the producer has not started
// writing yet.
func (s *Server) buildIndex() *runindex.Summary {
	start := time.Now()
	summary, err := runindex.Build(s.logPath)
	if err != nil {
		return &runindex.Summary{Runs: map[string]*runindex.Run{}}
	}
	if s.metrics != nil {
		s.metrics.IndexBuildTime.Observe(time.Since(start).Seconds())
	}
	return summary
}

// handleStream is the push sink: one SSE frame per accepted record. Each
// connection owns an independent cursor starting at the current end of file,
// so a consumer only sees records written after it connected.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	criteria := criteriaFromQuery(r.URL.Query())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	n := s.activeStreams.Add(1)
	start := time.Now()
	if s.metrics != nil {
		s.metrics.ActiveStreams.Set(float64(n))
	}
	defer func() {
		n := s.activeStreams.Add(-1)
		if s.metrics != nil {
			s.metrics.ActiveStreams.Set(float64(n))
			s.metrics.StreamDuration.Observe(time.Since(start).Seconds())
		}
	}()

	reader := stream.NewReader(s.logPath)
	reader.SkipToEnd()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		lines, err := reader.Poll()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) && s.metrics != nil {
				s.metrics.PollErrors.Inc()
			}
			continue
		}
		for _, line := range lines {
			rec, ok := stream.ParseLine(line)
			if !ok {
				if s.metrics != nil {
					s.metrics.LinesSkipped.Inc()
				}
				continue
			}
			if !criteria.Matches(rec) {
				if s.metrics != nil {
					s.metrics.RecordsFiltered.Inc()
				}
				continue
			}
			data, err := rec.JSON()
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
			if s.metrics != nil {
				s.metrics.RecordsStreamed.Inc()
			}
		}
	}
}

// handleCache proxies artifact files referenced by cache_path. Requests
// resolving outside the log directory get a generic denial.
func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	rel := r.PathValue("path")
	if rel == "" {
		s.countArtifact("denied")
		http.Error(w, "denied", http.StatusForbidden)
		return
	}

	resolved := filepath.Join(s.logDir, filepath.FromSlash(rel))
	abs, err := filepath.Abs(resolved)
	if err != nil || !strings.HasPrefix(abs, s.logDir+string(filepath.Separator)) {
		s.countArtifact("denied")
		http.Error(w, "denied", http.StatusForbidden)
		return
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		s.countArtifact("not_found")
		http.NotFound(w, r)
		return
	}

	s.countArtifact("served")
	http.ServeFile(w, r, abs)
}

func (s *Server) countArtifact(outcome string) {
	if s.metrics != nil {
		s.metrics.ArtifactRequests.WithLabelValues(outcome).Inc()
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// criteriaFromQuery maps SSE query parameters onto filter criteria.
// Unparseable values impose no constraint.
func criteriaFromQuery(q url.Values) stream.Criteria {
	c := stream.Criteria{
		Level:   q.Get("level"),
		Section: q.Get("section"),
		RunName: q.Get("run_name"),
		RunID:   q.Get("run_id"),
		Group:   q.Get("group"),
	}
	if v := q.Get("seconds"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Within = time.Duration(secs) * time.Second
		}
	}
	return c
}
