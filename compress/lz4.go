package compress

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// newLZ4Reader opens an LZ4 frame stream. Frame errors surface on read.
func newLZ4Reader(r io.Reader) io.Reader {
	return lz4.NewReader(r)
}
