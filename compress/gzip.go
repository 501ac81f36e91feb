package compress

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// newGzipReader opens a gzip stream. The reader validates the header
// eagerly, so a corrupt stream fails here rather than on first read.
func newGzipReader(r io.Reader) (io.Reader, error) {
	return gzip.NewReader(r)
}
