package compress

import (
	"io"

	"github.com/klauspost/compress/s2"
)

// newS2Reader opens an S2 framed stream. The reader also accepts plain
// snappy streams, which use the same chunk framing under their own stream
// identifier.
func newS2Reader(r io.Reader) io.Reader {
	return s2.NewReader(r)
}
