package segment

import (
	"fmt"

	"github.com/acqlab/tdms/daqmx"
	"github.com/acqlab/tdms/errs"
	"github.com/acqlab/tdms/format"
	"github.com/acqlab/tdms/stream"
)

// Raw-data index headers that are markers rather than index lengths.
const (
	rawIndexNoData        uint32 = 0xFFFFFFFF
	rawIndexMatchPrevious uint32 = 0x00000000
)

// Object is one entry of a segment's metadata section: a file, group or
// channel path with its raw-data layout and properties.
//
// For DAQmx objects DAQmx is non-nil, NumberValues is the per-chunk row
// count and DataSize is rows times the summed buffer widths. For standard
// objects DAQmx is nil and DataSize covers one chunk of this object's data.
type Object struct {
	Path         string
	DataType     format.DataType
	Dimension    uint32
	NumberValues uint64
	DataSize     uint64
	Properties   Properties
	DAQmx        *daqmx.Metadata

	hasRawData bool
	hasLayout  bool
}

// HasRawData returns whether this segment carries raw data for the object.
func (o *Object) HasRawData() bool {
	return o.hasRawData
}

// IsDAQmx returns whether the object's raw data uses DAQmx scaler buffers.
func (o *Object) IsDAQmx() bool {
	return o.DAQmx != nil
}

// layoutFrom copies the raw-data layout of src, leaving path and properties
// alone. Used when a raw index declares "same as previous segment".
func (o *Object) layoutFrom(src *Object) {
	o.DataType = src.DataType
	o.Dimension = src.Dimension
	o.NumberValues = src.NumberValues
	o.DataSize = src.DataSize
	o.DAQmx = src.DAQmx
	o.hasLayout = src.hasLayout
}

// clone returns a layout-only copy for carrying an object list into the next
// segment. Properties stay behind; they were already consumed when the
// source segment was read.
func (o *Object) clone() *Object {
	c := &Object{Path: o.Path, hasRawData: o.hasRawData}
	c.layoutFrom(o)

	return c
}

// readStandardIndex parses a non-DAQmx raw-data index. The header value
// already consumed by the caller is the index length, which real files are
// sloppy about, so the fields are read positionally instead.
//
// Standard raw data itself is never decoded here; the index is kept for
// value accounting and to locate the data region.
func (o *Object) readStandardIndex(r *stream.Reader) error {
	rawType, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("reading data type: %w", err)
	}

	dataType := format.DataType(rawType)
	if !dataType.IsValid() {
		return fmt.Errorf("%w: raw index data type 0x%08X", errs.ErrUnrecognizedType, rawType)
	}

	dimension, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("reading dimension: %w", err)
	}

	numValues, err := r.ReadUint64()
	if err != nil {
		return fmt.Errorf("reading value count: %w", err)
	}

	o.DataType = dataType
	o.Dimension = dimension
	o.NumberValues = numValues
	o.DAQmx = nil
	o.hasRawData = true
	o.hasLayout = true

	if dataType == format.String {
		// Variable-width data carries its total chunk size explicitly.
		total, err := r.ReadUint64()
		if err != nil {
			return fmt.Errorf("reading string data size: %w", err)
		}
		o.DataSize = total

		return nil
	}

	o.DataSize = numValues * uint64(dimension) * uint64(dataType.Size())

	return nil
}

// readDAQmxIndex parses a DAQmx raw-data index by delegating to the scaler
// metadata reader, then mirrors the chunk geometry into the object fields.
func (o *Object) readDAQmxIndex(r *stream.Reader, header uint32) error {
	meta, err := daqmx.ReadMetadata(r, header)
	if err != nil {
		return err
	}

	o.DataType = format.DAQmxRawData
	o.Dimension = meta.Dimension
	o.NumberValues = meta.ChunkSize
	o.DataSize = meta.DataSize()
	o.DAQmx = meta
	o.hasRawData = true
	o.hasLayout = true

	return nil
}
