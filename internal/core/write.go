package core

// write.go writes conversion artifacts: the JSON document, its zstd copy and
// the rejected-rows CSV. Every file is written to a temporary sibling and
// renamed into place, so a reader never sees a partial document.

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/zstd"
)

// CountingWriter wraps an io.Writer to track bytes written.
type CountingWriter struct {
	writer       io.Writer
	BytesWritten int64
}

// NewCountingWriter creates a counting writer.
func NewCountingWriter(w io.Writer) *CountingWriter {
	return &CountingWriter{writer: w}
}

// Write implements io.Writer.
func (w *CountingWriter) Write(p []byte) (int, error) {
	n, err := w.writer.Write(p)
	w.BytesWritten += int64(n)
	return n, err
}

// WriteFileAtomic creates the parent directory if needed and replaces path with
// the bytes produced by fill. It returns the number of bytes written.
func WriteFileAtomic(path string, fill func(w io.Writer) error) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, &IOWriteError{Path: path, Op: "create directory", Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, &IOWriteError{Path: path, Op: "create temp file", Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	cw := NewCountingWriter(tmp)
	if err := fill(cw); err != nil {
		return 0, &IOWriteError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return 0, &IOWriteError{Path: path, Op: "close", Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, &IOWriteError{Path: path, Op: "chmod", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, &IOWriteError{Path: path, Op: "rename", Err: err}
	}
	committed = true

	return cw.BytesWritten, nil
}

// WriteOutput replaces path with data.
func WriteOutput(path string, data []byte) (int64, error) {
	return WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// CompressedPath returns the path of the zstd copy of an output file.
func CompressedPath(output string) string {
	return output + ".zst"
}

// WriteCompressed writes a zstd copy of data at the best compression level.
func WriteCompressed(path string, data []byte) (int64, error) {
	return WriteFileAtomic(path, func(w io.Writer) error {
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return err
		}
		if _, err := zw.Write(data); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	})
}

// RejectsHeader is the fixed prefix of the rejected-rows CSV header; the
// original fields follow.
var RejectsHeader = []string{"line", "kind", "reason"}

// WriteRejects writes one CSV row per rejection: line, kind, reason, then the
// row's original fields.
func WriteRejects(path string, header []string, rejections []Rejection) (int64, error) {
	return WriteFileAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)

		if err := cw.Write(append(append([]string{}, RejectsHeader...), header...)); err != nil {
			return err
		}
		for _, rej := range rejections {
			record := make([]string, 0, len(RejectsHeader)+len(rej.Data))
			record = append(record, strconv.Itoa(rej.Line), string(rej.Kind), rej.Reason())
			record = append(record, rej.Data...)
			if err := cw.Write(record); err != nil {
				return err
			}
		}

		cw.Flush()
		return cw.Error()
	})
}
