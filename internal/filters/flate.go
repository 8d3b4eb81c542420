package filters

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// ErrTooLarge is returned when decompressed output exceeds the size limit.
var ErrTooLarge = errors.New("decompressed data exceeds size limit")

// FlateDecode decompresses zlib-compressed data.
func FlateDecode(data []byte, limit int64) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer reader.Close()

	return readLimited(reader, limit)
}

// GzipDecode decompresses gzip-compressed data. Multi-member streams are
// concatenated, matching the gzip command line tool.
func GzipDecode(data []byte, limit int64) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()

	return readLimited(reader, limit)
}

// readLimited drains r, failing once more than limit bytes were produced.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, src)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	if limit > 0 && n > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, limit)
	}

	return buf.Bytes(), nil
}
