package cloud

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// DefaultLocalName derives the local filename for a remote key, stripping a
// compression suffix since Fetch writes the decompressed content.
func DefaultLocalName(key string) string {
	name := path.Base(key)
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".zst")
	if name == "" || name == "." || name == "/" {
		return "fetched.jsonl"
	}
	return name
}

// Fetch downloads the object at key to dst, transparently decompressing
// .gz and .zst objects. Returns the number of bytes written to dst.
func Fetch(ctx context.Context, b Backend, key, dst string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".fetch-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := b.Download(ctx, key, tmp); err != nil {
		_ = tmp.Close()
		return 0, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("rewind temp file: %w", err)
	}

	var src io.Reader = tmp
	switch {
	case strings.HasSuffix(key, ".gz"):
		gr, err := gzip.NewReader(tmp)
		if err != nil {
			_ = tmp.Close()
			return 0, fmt.Errorf("open gzip stream %s: %w", key, err)
		}
		defer func() { _ = gr.Close() }()
		src = gr
	case strings.HasSuffix(key, ".zst"):
		zr, err := zstd.NewReader(tmp)
		if err != nil {
			_ = tmp.Close()
			return 0, fmt.Errorf("open zstd stream %s: %w", key, err)
		}
		defer zr.Close()
		src = zr
	}

	out, err := os.Create(dst)
	if err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}

	n, err := io.Copy(out, src)
	if err != nil {
		_ = out.Close()
		_ = tmp.Close()
		return n, fmt.Errorf("write %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		_ = tmp.Close()
		return n, fmt.Errorf("close %s: %w", dst, err)
	}
	_ = tmp.Close()
	return n, nil
}
