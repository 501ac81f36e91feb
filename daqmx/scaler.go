package daqmx

import (
	"fmt"

	"github.com/acqlab/tdms/errs"
	"github.com/acqlab/tdms/format"
	"github.com/acqlab/tdms/stream"
)

// Raw data index header values selecting the scaler record layout for a
// whole segment.
const (
	// FormatChangingScalerHeader marks a DAQmx raw data index whose scaler
	// records carry byte-granularity offsets.
	FormatChangingScalerHeader uint32 = 0x00001269

	// DigitalLineScalerHeader marks a DAQmx raw data index whose scaler
	// records carry bit-granularity offsets. Vendor documentation lists
	// 0x00001369 for this case, but files written by real acquisitions
	// carry 0x0000126A; the observed value is authoritative here.
	DigitalLineScalerHeader uint32 = 0x0000126A
)

// IsScalerHeader reports whether a raw data index header value selects one
// of the two DAQmx scaler layouts.
func IsScalerHeader(header uint32) bool {
	return header == FormatChangingScalerHeader || header == DigitalLineScalerHeader
}

// RawSample constrains the native container types a scaler decodes to.
type RawSample interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32
}

// Scaler describes how one channel's samples are extracted from a raw
// buffer. It is a closed union: FormatChangingScaler and DigitalLineScaler
// are the only implementations, fixed per segment by the raw data index
// header.
type Scaler interface {
	// ScaleID returns the scaler's key within its channel's decoded data.
	ScaleID() uint32
	// RawBufferIndex returns the index of the raw buffer the scaler reads from.
	RawBufferIndex() uint32
	// DataType returns the native sample container type.
	DataType() format.DataType
	// ByteOffset returns the byte position of the sample container within
	// one row of the raw buffer.
	ByteOffset() uint32

	fmt.Stringer

	// postprocess turns extracted container values into final samples,
	// mutating the column in place.
	postprocess(col Column)
}

// FormatChangingScaler extracts a fixed-width value from a byte offset
// within each raw buffer row. The extracted value is the sample value.
type FormatChangingScaler struct {
	dataType       format.DataType
	rawBufferIndex uint32
	rawByteOffset  uint32
	bitmap         uint32
	scaleID        uint32
}

// ScaleID returns the scaler's key within its channel's decoded data.
func (s FormatChangingScaler) ScaleID() uint32 { return s.scaleID }

// RawBufferIndex returns the index of the raw buffer the scaler reads from.
func (s FormatChangingScaler) RawBufferIndex() uint32 { return s.rawBufferIndex }

// DataType returns the native sample container type.
func (s FormatChangingScaler) DataType() format.DataType { return s.dataType }

// RawByteOffset returns the byte offset within one buffer row.
func (s FormatChangingScaler) RawByteOffset() uint32 { return s.rawByteOffset }

// SampleFormatBitmap returns the stored sample format flags. The flags are
// carried through but not interpreted.
func (s FormatChangingScaler) SampleFormatBitmap() uint32 { return s.bitmap }

// ByteOffset returns the byte position of the sample container within one
// buffer row, which for this variant is the raw byte offset itself.
func (s FormatChangingScaler) ByteOffset() uint32 { return s.rawByteOffset }

func (s FormatChangingScaler) String() string {
	return fmt.Sprintf("FormatChanging(scale_id=%d type=%s buffer=%d byte_offset=%d)",
		s.scaleID, s.dataType, s.rawBufferIndex, s.rawByteOffset)
}

// Format changing values are already final samples.
func (s FormatChangingScaler) postprocess(Column) {}

// DigitalLineScaler extracts a single bit from each raw buffer row. The
// container byte is located at RawBitOffset/8 and reduced to the addressed
// bit during post-processing.
type DigitalLineScaler struct {
	dataType       format.DataType
	rawBufferIndex uint32
	rawBitOffset   uint32
	bitmap         uint8
	scaleID        uint32
}

// ScaleID returns the scaler's key within its channel's decoded data.
func (s DigitalLineScaler) ScaleID() uint32 { return s.scaleID }

// RawBufferIndex returns the index of the raw buffer the scaler reads from.
func (s DigitalLineScaler) RawBufferIndex() uint32 { return s.rawBufferIndex }

// DataType returns the native sample container type.
func (s DigitalLineScaler) DataType() format.DataType { return s.dataType }

// RawBitOffset returns the bit offset within one buffer row.
func (s DigitalLineScaler) RawBitOffset() uint32 { return s.rawBitOffset }

// SampleFormatBitmap returns the stored sample format flags. On disk this
// field is a single byte for digital line scalers.
func (s DigitalLineScaler) SampleFormatBitmap() uint8 { return s.bitmap }

// ByteOffset returns the byte position of the container holding the
// addressed bit, RawBitOffset/8.
func (s DigitalLineScaler) ByteOffset() uint32 { return s.rawBitOffset / 8 }

func (s DigitalLineScaler) String() string {
	return fmt.Sprintf("DigitalLine(scale_id=%d type=%s buffer=%d bit_offset=%d)",
		s.scaleID, s.dataType, s.rawBufferIndex, s.rawBitOffset)
}

// Reduce each container value to the addressed bit, yielding 0/1 samples.
func (s DigitalLineScaler) postprocess(col Column) {
	bit := uint(s.rawBitOffset % 8)
	switch vals := col.data.(type) {
	case []uint8:
		extractBit(vals, bit)
	case []int8:
		extractBit(vals, bit)
	case []uint16:
		extractBit(vals, bit)
	case []int16:
		extractBit(vals, bit)
	case []uint32:
		extractBit(vals, bit)
	case []int32:
		extractBit(vals, bit)
	}
}

func extractBit[T RawSample](vals []T, bit uint) {
	for i, v := range vals {
		vals[i] = (v >> bit) & 1
	}
}

// daqmxDataType maps a DAQmx scaler type code onto the generic data type
// enum. DAQmx uses its own code space, distinct from the format type codes.
func daqmxDataType(code uint32) (format.DataType, bool) {
	switch code {
	case 0:
		return format.Uint8, true
	case 1:
		return format.Int8, true
	case 2:
		return format.Uint16, true
	case 3:
		return format.Int16, true
	case 4:
		return format.Uint32, true
	case 5:
		return format.Int32, true
	default:
		return format.Void, false
	}
}

func readFormatChangingScaler(r *stream.Reader) (FormatChangingScaler, error) {
	code, err := r.ReadUint32()
	if err != nil {
		return FormatChangingScaler{}, err
	}

	dataType, ok := daqmxDataType(code)
	if !ok {
		return FormatChangingScaler{}, fmt.Errorf("%w: scaler type code %#x", errs.ErrUnrecognizedType, code)
	}

	s := FormatChangingScaler{dataType: dataType}
	if s.rawBufferIndex, err = r.ReadUint32(); err != nil {
		return FormatChangingScaler{}, err
	}
	if s.rawByteOffset, err = r.ReadUint32(); err != nil {
		return FormatChangingScaler{}, err
	}
	if s.bitmap, err = r.ReadUint32(); err != nil {
		return FormatChangingScaler{}, err
	}
	if s.scaleID, err = r.ReadUint32(); err != nil {
		return FormatChangingScaler{}, err
	}

	return s, nil
}

func readDigitalLineScaler(r *stream.Reader) (DigitalLineScaler, error) {
	code, err := r.ReadUint32()
	if err != nil {
		return DigitalLineScaler{}, err
	}

	dataType, ok := daqmxDataType(code)
	if !ok {
		return DigitalLineScaler{}, fmt.Errorf("%w: scaler type code %#x", errs.ErrUnrecognizedType, code)
	}

	s := DigitalLineScaler{dataType: dataType}
	if s.rawBufferIndex, err = r.ReadUint32(); err != nil {
		return DigitalLineScaler{}, err
	}
	if s.rawBitOffset, err = r.ReadUint32(); err != nil {
		return DigitalLineScaler{}, err
	}
	// The bitmap is one byte here, not four; the asymmetry with format
	// changing records is part of the on-disk format.
	if s.bitmap, err = r.ReadUint8(); err != nil {
		return DigitalLineScaler{}, err
	}
	if s.scaleID, err = r.ReadUint32(); err != nil {
		return DigitalLineScaler{}, err
	}

	return s, nil
}
