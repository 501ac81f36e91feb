package tdms

import (
	"fmt"

	"github.com/acqlab/tdms/internal/options"
)

// defaultMaxArchiveSize bounds how far a compressed archive may expand in
// memory before OpenFile gives up: 1 GiB.
const defaultMaxArchiveSize int64 = 1 << 30

// readOptions carries the tunables shared by Open, OpenFile and ReadFile.
type readOptions struct {
	maxArchiveSize int64
	strictChunks   bool
}

func defaultReadOptions() *readOptions {
	return &readOptions{
		maxArchiveSize: defaultMaxArchiveSize,
	}
}

// Option configures how a TDMS file is opened and decoded.
type Option = options.Option[*readOptions]

// WithMaxArchiveSize sets the decompressed size limit for compressed
// archives, in bytes. Opening an archive that expands past the limit fails
// with ErrArchiveTooLarge instead of exhausting memory.
//
// The default limit is 1 GiB. The limit applies only to compressed inputs;
// plain TDMS files are read in place and never buffered whole.
func WithMaxArchiveSize(limit int64) Option {
	return options.New(func(o *readOptions) error {
		if limit <= 0 {
			return fmt.Errorf("max archive size must be positive, got %d", limit)
		}
		o.maxArchiveSize = limit

		return nil
	})
}

// WithStrictChunks makes trailing raw data that does not fill a whole chunk
// an error.
//
// By default a segment cut short mid-chunk, which interrupted writers
// produce routinely, keeps its complete chunks and drops the partial tail.
// Strict mode rejects the file instead, for callers that must detect any
// truncation.
func WithStrictChunks() Option {
	return options.NoError(func(o *readOptions) {
		o.strictChunks = true
	})
}
