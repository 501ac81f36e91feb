package compress

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Format identifies the compression wrapping a TDMS archive, detected from
// its magic bytes.
type Format int

const (
	// FormatNone means the stream is not compressed.
	FormatNone Format = iota
	// FormatGzip is a gzip stream (RFC 1952).
	FormatGzip
	// FormatZstd is a Zstandard frame.
	FormatZstd
	// FormatLZ4 is an LZ4 frame.
	FormatLZ4
	// FormatS2 is an S2 or snappy framed stream.
	FormatS2
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatGzip:
		return "gzip"
	case FormatZstd:
		return "zstd"
	case FormatLZ4:
		return "lz4"
	case FormatS2:
		return "s2"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

var (
	gzipMagic = []byte{0x1F, 0x8B}
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
	// Stream identifier chunks of the S2 framing format. S2 writers emit
	// the S2sTwO body; snappy writers emit sNaPpY inside the same chunk
	// framing. The s2 reader decodes both.
	s2Magic     = []byte{0xFF, 0x06, 0x00, 0x00, 'S', '2', 's', 'T', 'w', 'O'}
	snappyMagic = []byte{0xFF, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}
)

// MaxMagicLen is the longest prefix Detect needs to decide (the S2 stream
// identifier). Callers sniffing a seekable stream themselves can read this
// many bytes and rewind.
const MaxMagicLen = 10

// Detect sniffs the compression format from the first bytes of a stream.
// A prefix shorter than a format's magic simply never matches it.
func Detect(prefix []byte) Format {
	switch {
	case bytes.HasPrefix(prefix, s2Magic), bytes.HasPrefix(prefix, snappyMagic):
		return FormatS2
	case bytes.HasPrefix(prefix, zstdMagic):
		return FormatZstd
	case bytes.HasPrefix(prefix, lz4Magic):
		return FormatLZ4
	case bytes.HasPrefix(prefix, gzipMagic):
		return FormatGzip
	default:
		return FormatNone
	}
}

// NewReader sniffs r's compression format and returns a reader producing the
// uncompressed stream, along with the detected format.
//
// An unrecognized prefix passes through untouched as FormatNone; the
// returned reader then yields r's bytes from the beginning, including the
// sniffed prefix.
//
// Parameters:
//   - r: Source stream, read from its current position
//
// Returns:
//   - io.Reader: Decompressing reader, or a buffered passthrough
//   - Format: Detected compression format
//   - error: Decompressor initialization failure
func NewReader(r io.Reader) (io.Reader, Format, error) {
	br := bufio.NewReader(r)

	prefix, err := br.Peek(MaxMagicLen)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, FormatNone, fmt.Errorf("sniffing compression format: %w", err)
	}

	format := Detect(prefix)
	switch format {
	case FormatGzip:
		zr, err := newGzipReader(br)
		if err != nil {
			return nil, format, fmt.Errorf("opening gzip stream: %w", err)
		}

		return zr, format, nil
	case FormatZstd:
		zr, err := newZstdReader(br)
		if err != nil {
			return nil, format, fmt.Errorf("opening zstd stream: %w", err)
		}

		return zr, format, nil
	case FormatLZ4:
		return newLZ4Reader(br), format, nil
	case FormatS2:
		return newS2Reader(br), format, nil
	default:
		return br, FormatNone, nil
	}
}
