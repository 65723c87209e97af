package cloud

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// memBackend serves objects from a map.
type memBackend struct {
	objects map[string][]byte
}

func (m *memBackend) Download(_ context.Context, key string, w io.Writer) error {
	data, ok := m.objects[key]
	if !ok {
		return errors.New("no such object")
	}
	_, err := w.Write(data)
	return err
}

func (m *memBackend) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for k, v := range m.objects {
		out = append(out, ObjectInfo{Key: k, Size: int64(len(v))})
	}
	_ = prefix
	return out, nil
}

func TestDefaultLocalName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"logs/app.jsonl", "app.jsonl"},
		{"logs/app.jsonl.gz", "app.jsonl"},
		{"app.jsonl.zst", "app.jsonl"},
		{"", "fetched.jsonl"},
	}
	for _, tt := range tests {
		if got := DefaultLocalName(tt.key); got != tt.want {
			t.Errorf("DefaultLocalName(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFetchPlain(t *testing.T) {
	content := []byte("{\"level\":\"INFO\",\"message\":\"hi\"}\n")
	b := &memBackend{objects: map[string][]byte{"logs/app.jsonl": content}}
	dst := filepath.Join(t.TempDir(), "app.jsonl")

	n, err := Fetch(context.Background(), b, "logs/app.jsonl", dst)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("n = %d, want %d", n, len(content))
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("content = %q", got)
	}
}

func TestFetchGzip(t *testing.T) {
	content := []byte("{\"message\":\"compressed\"}\n")
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, _ = gw.Write(content)
	_ = gw.Close()

	b := &memBackend{objects: map[string][]byte{"app.jsonl.gz": buf.Bytes()}}
	dst := filepath.Join(t.TempDir(), "app.jsonl")

	n, err := Fetch(context.Background(), b, "app.jsonl.gz", dst)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("n = %d, want %d", n, len(content))
	}
	got, _ := os.ReadFile(dst)
	if !bytes.Equal(got, content) {
		t.Errorf("content = %q", got)
	}
}

func TestFetchZstd(t *testing.T) {
	content := []byte("{\"message\":\"zstd compressed\"}\n")
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	_, _ = zw.Write(content)
	_ = zw.Close()

	b := &memBackend{objects: map[string][]byte{"app.jsonl.zst": buf.Bytes()}}
	dst := filepath.Join(t.TempDir(), "app.jsonl")

	if _, err := Fetch(context.Background(), b, "app.jsonl.zst", dst); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	got, _ := os.ReadFile(dst)
	if !bytes.Equal(got, content) {
		t.Errorf("content = %q", got)
	}
}

func TestFetchMissingObject(t *testing.T) {
	b := &memBackend{objects: map[string][]byte{}}
	dst := filepath.Join(t.TempDir(), "app.jsonl")
	if _, err := Fetch(context.Background(), b, "gone.jsonl", dst); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(dst); !errors.Is(err, os.ErrNotExist) {
		t.Error("failed fetch must not leave a destination file")
	}
}

func TestFetchBadGzip(t *testing.T) {
	b := &memBackend{objects: map[string][]byte{"app.jsonl.gz": []byte("not gzip")}}
	dst := filepath.Join(t.TempDir(), "app.jsonl")
	if _, err := Fetch(context.Background(), b, "app.jsonl.gz", dst); err == nil {
		t.Fatal("expected error for corrupt gzip")
	}
}
