//go:build !cgo

package compress

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// newZstdReader opens a Zstandard stream with the pure-Go decoder, used when
// cgo is unavailable. Archives decompress once into memory, so single-
// threaded decoding is plenty.
func newZstdReader(r io.Reader) (io.Reader, error) {
	return zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
}
