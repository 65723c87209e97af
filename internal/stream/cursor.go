package stream

import (
	"bytes"
	"io"
	"os"
)

// Reader tracks a byte offset into one growing JSONL file. Each Poll reads
// the bytes appended since the last call and returns the complete lines among
// them. A trailing fragment without a newline is not consumed; the offset
// only ever points just past a complete line (or 0). When the file shrinks
// below the offset (truncate or rotate-in-place), the cursor resets to 0 and
// the next read restarts from the top.
//
// A Reader is owned by a single polling loop and is not safe for concurrent
// use. Independent sessions over the same file each get their own Reader.
type Reader struct {
	path   string
	offset int64
}

// NewReader creates a cursor at the start of path. The file does not need
// to exist yet.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Offset returns the current byte offset.
func (r *Reader) Offset() int64 { return r.offset }

// SkipToEnd moves the cursor to the current end of file, so that Poll only
// returns lines written after this call. A missing file leaves the cursor
// at 0.
func (r *Reader) SkipToEnd() {
	info, err := os.Stat(r.path)
	if err != nil {
		return
	}
	r.offset = info.Size()
}

// Poll reads newly appended complete lines. A missing file returns
// os.ErrNotExist; follow loops treat that as "keep waiting". No new data
// returns (nil, nil).
func (r *Reader) Poll() ([][]byte, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return nil, err
	}

	size := info.Size()
	if size < r.offset {
		r.offset = 0
	}
	if size == r.offset {
		return nil, nil
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Seek(r.offset, io.SeekStart); err != nil {
		return nil, err
	}
	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	var lines [][]byte
	var consumed int64
	for {
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			// incomplete trailing fragment, left for the next poll
			break
		}
		lines = append(lines, buf[:idx])
		buf = buf[idx+1:]
		consumed += int64(idx) + 1
	}
	r.offset += consumed

	return lines, nil
}
