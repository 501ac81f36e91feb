package daqmx

import (
	"fmt"

	"github.com/acqlab/tdms/errs"
	"github.com/acqlab/tdms/format"
	"github.com/acqlab/tdms/stream"
)

// Metadata describes how one channel's samples are packed into a segment's
// raw buffers. It is parsed once from the channel's raw data index and is
// immutable afterwards; every chunk of the segment decodes against the same
// metadata.
//
// All DAQmx channels in one segment share the same ChunkSize and
// RawDataWidths; the format repeats them per channel and the decoder trusts
// the first channel's copy.
type Metadata struct {
	// Dimension is the data dimension, always 1 in the supported format
	// version.
	Dimension uint32

	// ChunkSize is the number of sample rows per chunk.
	ChunkSize uint64

	// Scalers are the channel's scaler descriptors, all of the same
	// variant within one metadata block.
	Scalers []Scaler

	// RawDataWidths holds the per-row byte width of each raw buffer, one
	// entry per acquisition device contributing to the segment.
	RawDataWidths []uint32
}

// TotalRawDataWidth returns the combined per-row byte width across all raw
// buffers.
func (m *Metadata) TotalRawDataWidth() uint64 {
	var total uint64
	for _, w := range m.RawDataWidths {
		total += uint64(w)
	}

	return total
}

// DataSize returns the total byte size of one chunk of this channel's
// segment, ChunkSize rows across all raw buffers.
func (m *Metadata) DataSize() uint64 {
	return m.ChunkSize * m.TotalRawDataWidth()
}

// ScalerTypes returns the native container type of each scaler keyed by
// scale id.
func (m *Metadata) ScalerTypes() map[uint32]format.DataType {
	types := make(map[uint32]format.DataType, len(m.Scalers))
	for _, s := range m.Scalers {
		types[s.ScaleID()] = s.DataType()
	}

	return types
}

// ReadMetadata parses one channel's DAQmx metadata block.
//
// The reader must be positioned immediately after the 4-byte raw data index
// header, whose value is passed as header and selects the scaler record
// layout for the whole block.
//
// Parameters:
//   - r: Stream reader carrying the segment's byte order
//   - header: Raw data index header, FormatChangingScalerHeader or
//     DigitalLineScalerHeader
//
// Returns:
//   - *Metadata: Parsed metadata, nil on error
//   - error: ErrInvalidFormat for an unknown header or a dimension other
//     than 1, ErrUnrecognizedType for scaler type codes outside the DAQmx
//     table, ErrUnexpectedEndOfData for a truncated block
func ReadMetadata(r *stream.Reader, header uint32) (*Metadata, error) {
	if !IsScalerHeader(header) {
		return nil, fmt.Errorf("%w: raw data index header %#x is not a DAQmx scaler header", errs.ErrInvalidFormat, header)
	}

	// The block opens with the channel's nominal data type. For DAQmx
	// data it is always the DAQmxRawData marker; the effective per-scaler
	// types come from the scaler records, so the value is only validated
	// and then dropped.
	dataTypeVal, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading data type: %w", err)
	}
	if !format.DataType(dataTypeVal).IsValid() {
		return nil, fmt.Errorf("%w: data type code %#x", errs.ErrUnrecognizedType, dataTypeVal)
	}

	m := &Metadata{}

	if m.Dimension, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("reading dimension: %w", err)
	}
	if m.Dimension != 1 {
		return nil, fmt.Errorf("%w: data dimension %d, must be 1", errs.ErrInvalidFormat, m.Dimension)
	}

	if m.ChunkSize, err = r.ReadUint64(); err != nil {
		return nil, fmt.Errorf("reading chunk size: %w", err)
	}

	scalerCount, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading scaler vector length: %w", err)
	}

	// Cap the preallocation so a corrupt count cannot drive a huge
	// allocation; a lying count runs out of stream instead.
	m.Scalers = make([]Scaler, 0, min(scalerCount, 256))
	for i := uint32(0); i < scalerCount; i++ {
		var s Scaler
		if header == FormatChangingScalerHeader {
			s, err = readFormatChangingScaler(r)
		} else {
			s, err = readDigitalLineScaler(r)
		}
		if err != nil {
			return nil, fmt.Errorf("reading scaler %d: %w", i, err)
		}

		m.Scalers = append(m.Scalers, s)
	}

	widthCount, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading raw data width count: %w", err)
	}

	m.RawDataWidths = make([]uint32, 0, min(widthCount, 64))
	for i := uint32(0); i < widthCount; i++ {
		w, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("reading raw data width %d: %w", i, err)
		}

		m.RawDataWidths = append(m.RawDataWidths, w)
	}

	return m, nil
}
