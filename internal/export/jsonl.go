package export

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/rvilkov/loglab/internal/stream"
)

type jsonlWriter struct {
	buf *bufio.Writer
	enc *json.Encoder
}

func newJSONLWriter(out io.Writer) *jsonlWriter {
	buf := bufio.NewWriter(out)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &jsonlWriter{buf: buf, enc: enc}
}

func (w *jsonlWriter) Write(rec stream.Record) error {
	return w.enc.Encode(rec)
}

func (w *jsonlWriter) Close() error {
	return w.buf.Flush()
}
