// Package stream provides an endianness-aware primitive reader used by the
// segment and DAQmx decoders.
//
// A Reader wraps an io.Reader together with the endian engine selected from
// the segment's table of contents, so callers read typed values without
// repeating byte order plumbing. Short reads surface as
// errs.ErrUnexpectedEndOfData so decoders can distinguish truncated input
// from transport failures.
package stream

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/acqlab/tdms/endian"
	"github.com/acqlab/tdms/errs"
)

// maxStringLength bounds length-prefixed string reads. A corrupt length
// prefix must not drive a multi-gigabyte allocation before the stream runs
// dry.
const maxStringLength = 64 << 20

// Reader decodes primitive values from an io.Reader using a fixed byte order.
//
// A TDMS segment declares one byte order for all of its contents, so the
// engine is bound at construction time. Reader is not safe for concurrent
// use; each goroutine needs its own instance.
type Reader struct {
	r       io.Reader
	engine  endian.EndianEngine
	scratch [8]byte
}

// NewReader creates a Reader over r decoding with the given engine.
func NewReader(r io.Reader, engine endian.EndianEngine) *Reader {
	return &Reader{r: r, engine: engine}
}

// Engine returns the byte order engine the reader decodes with.
func (r *Reader) Engine() endian.EndianEngine {
	return r.engine
}

// ReadFull fills dst completely or fails. A short read of any kind is
// reported as errs.ErrUnexpectedEndOfData.
func (r *Reader) ReadFull(dst []byte) error {
	if _, err := io.ReadFull(r.r, dst); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: wanted %d bytes", errs.ErrUnexpectedEndOfData, len(dst))
		}

		return err
	}

	return nil
}

// ReadBytes reads exactly n bytes into a freshly allocated slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.ReadFull(r.scratch[:1]); err != nil {
		return 0, err
	}

	return r.scratch[0], nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.ReadFull(r.scratch[:2]); err != nil {
		return 0, err
	}

	return r.engine.Uint16(r.scratch[:2]), nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.ReadFull(r.scratch[:4]); err != nil {
		return 0, err
	}

	return r.engine.Uint32(r.scratch[:4]), nil
}

// ReadUint64 reads an unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.ReadFull(r.scratch[:8]); err != nil {
		return 0, err
	}

	return r.engine.Uint64(r.scratch[:8]), nil
}

// ReadInt32 reads a signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a signed 64-bit integer.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads an IEEE 754 32-bit float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads an IEEE 754 64-bit float.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadString reads a uint32 length prefix followed by that many UTF-8 bytes.
func (r *Reader) ReadString() (string, error) {
	length, err := r.ReadUint32()
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	if length > maxStringLength {
		return "", fmt.Errorf("%w: string length %d exceeds limit", errs.ErrInvalidFormat, length)
	}

	buf := make([]byte, length)
	if err := r.ReadFull(buf); err != nil {
		return "", err
	}

	return string(buf), nil
}

// Skip discards exactly n bytes from the stream.
func (r *Reader) Skip(n int64) error {
	if n <= 0 {
		return nil
	}

	copied, err := io.CopyN(io.Discard, r.r, n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: skipped %d of %d bytes", errs.ErrUnexpectedEndOfData, copied, n)
		}

		return err
	}

	return nil
}
