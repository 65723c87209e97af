// Package export writes a one-shot filtered pass over a log file to a static
// output: a self-contained HTML page, a JSONL copy, or a Parquet file.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/rvilkov/loglab/internal/stream"
)

// Format identifies the output format.
type Format string

const (
	FormatHTML    Format = "html"
	FormatJSONL   Format = "jsonl"
	FormatParquet Format = "parquet"
)

// Writer writes records to an output format.
type Writer interface {
	Write(stream.Record) error
	Close() error
}

// DetectFormat infers format and gzip wrapping from the destination name.
// Returns an error for unrecognized extensions.
func DetectFormat(dst string) (Format, bool, error) {
	name := dst
	gzipOut := false
	if strings.HasSuffix(name, ".gz") {
		gzipOut = true
		name = strings.TrimSuffix(name, ".gz")
	}
	switch {
	case strings.HasSuffix(name, ".html"), strings.HasSuffix(name, ".htm"):
		return FormatHTML, gzipOut, nil
	case strings.HasSuffix(name, ".jsonl"), strings.HasSuffix(name, ".ndjson"):
		return FormatJSONL, gzipOut, nil
	case strings.HasSuffix(name, ".parquet"):
		if gzipOut {
			return "", false, fmt.Errorf("parquet output is already compressed, drop the .gz suffix")
		}
		return FormatParquet, false, nil
	default:
		return "", false, fmt.Errorf("cannot infer format from %q: expected .html, .jsonl or .parquet (optionally .gz)", dst)
	}
}

// Export scans src once, applying the criteria, and writes accepted records
// to dst. Returns the number of records written.
func Export(src, dst string, format Format, gzipOut bool, criteria stream.Criteria) (int, error) {
	if format == FormatParquet && gzipOut {
		return 0, fmt.Errorf("parquet output is already compressed")
	}

	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}

	var out io.Writer = f
	var gz *gzip.Writer
	if gzipOut {
		gz = gzip.NewWriter(f)
		out = gz
	}

	w, err := newWriter(out, format, src)
	if err != nil {
		_ = f.Close()
		return 0, err
	}

	written := 0
	_, err = stream.ScanAll(src, criteria, func(rec stream.Record) {
		if werr := w.Write(rec); werr == nil {
			written++
		}
	})
	if err != nil {
		_ = w.Close()
		_ = f.Close()
		return written, err
	}

	if err := w.Close(); err != nil {
		_ = f.Close()
		return written, fmt.Errorf("finalize output: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			_ = f.Close()
			return written, fmt.Errorf("finalize gzip: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return written, fmt.Errorf("close output: %w", err)
	}
	return written, nil
}

func newWriter(out io.Writer, format Format, src string) (Writer, error) {
	switch format {
	case FormatHTML:
		return newHTMLWriter(out, src), nil
	case FormatJSONL:
		return newJSONLWriter(out), nil
	case FormatParquet:
		return newParquetWriter(out), nil
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}
