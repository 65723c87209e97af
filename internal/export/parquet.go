package export

import (
	"encoding/json"
	"io"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/rvilkov/loglab/internal/stream"
)

const parquetBatchSize = 50000

// parquetRecord is the Parquet schema struct. The open-ended extra fields
// travel as one JSON column; the well-known fields get real columns.
type parquetRecord struct {
	Ts      int64  `parquet:"ts,timestamp(nanosecond)"`
	Level   string `parquet:"level"`
	Section string `parquet:"section"`
	RunName string `parquet:"run_name"`
	RunID   string `parquet:"run_id"`
	Group   string `parquet:"group"`
	Msg     string `parquet:"msg"`
	Extra   string `parquet:"extra"`
}

type parquetWriter struct {
	writer *parquet.GenericWriter[parquetRecord]
	batch  []parquetRecord
}

func newParquetWriter(out io.Writer) *parquetWriter {
	w := parquet.NewGenericWriter[parquetRecord](out,
		parquet.Compression(&zstd.Codec{}),
	)
	return &parquetWriter{
		writer: w,
		batch:  make([]parquetRecord, 0, parquetBatchSize),
	}
}

func (w *parquetWriter) Write(rec stream.Record) error {
	row := parquetRecord{
		Level:   rec.Level(),
		Section: rec.Section(),
		RunName: rec.RunName(),
		RunID:   rec.RunID(),
		Group:   rec.Group(),
		Msg:     rec.Message(),
	}
	if ts, ok := rec.Time(); ok {
		row.Ts = ts.UnixNano()
	}
	if extra := rec.Extra(); extra != nil {
		if data, err := json.Marshal(extra); err == nil {
			row.Extra = string(data)
		}
	}

	w.batch = append(w.batch, row)
	if len(w.batch) >= parquetBatchSize {
		return w.flush()
	}
	return nil
}

func (w *parquetWriter) flush() error {
	if len(w.batch) == 0 {
		return nil
	}
	_, err := w.writer.Write(w.batch)
	w.batch = w.batch[:0]
	return err
}

func (w *parquetWriter) Close() error {
	if err := w.flush(); err != nil {
		_ = w.writer.Close()
		return err
	}
	return w.writer.Close()
}
