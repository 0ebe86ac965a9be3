package utils

import (
	"bytes"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// GzipDeterministic compresses data with gzip such that identical
// input always yields byte-identical output: the header's modification
// time is forced to zero and no filename or comment is emitted. The
// compressed digests embedded in the Release document stay stable
// across regenerations because of this.
func GzipDeterministic(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.ModTime = time.Time{}
	w.Name = ""
	w.Comment = ""

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ZstdCompress compresses data with zstd at the library default level.
// Encoder concurrency is pinned to one goroutine so the output does
// not depend on GOMAXPROCS.
func ZstdCompress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	return enc.EncodeAll(data, nil), nil
}
