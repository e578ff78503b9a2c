// Package compression opens optionally compressed scene documents.
package compression

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// MaxDecompressedSize bounds how much data a single document may expand to.
const MaxDecompressedSize = 64 * 1024 * 1024

// Format identifies a supported compression container.
type Format string

const (
	FormatNone  Format = ""
	FormatGzip  Format = "gzip"
	FormatXz    Format = "xz"
	FormatBzip2 Format = "bzip2"
)

// DetectFormat picks a format from a file name's extension.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".gzip":
		return FormatGzip
	case ".xz":
		return FormatXz
	case ".bz2":
		return FormatBzip2
	default:
		return FormatNone
	}
}

// NewReader wraps r in the decompressor matching name's extension. Plain
// files are passed through. The returned reader fails once more than
// MaxDecompressedSize bytes have been produced.
func NewReader(name string, r io.Reader) (io.ReadCloser, error) {
	switch DetectFormat(name) {
	case FormatGzip:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &readCloser{Reader: NewLimitedReader(gzr, MaxDecompressedSize), close: gzr.Close}, nil
	case FormatXz:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return &readCloser{Reader: NewLimitedReader(xzr, MaxDecompressedSize)}, nil
	case FormatBzip2:
		return &readCloser{Reader: NewLimitedReader(bzip2.NewReader(r), MaxDecompressedSize)}, nil
	default:
		return io.NopCloser(r), nil
	}
}

type readCloser struct {
	io.Reader
	close func() error
}

func (rc *readCloser) Close() error {
	if rc.close == nil {
		return nil
	}
	return rc.close()
}

// LimitedReader wraps an io.Reader and limits the total bytes that can be read.
// Unlike io.LimitReader it reports an error when the limit is hit instead of EOF.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		return 0, fmt.Errorf("decompression size limit exceeded")
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}
