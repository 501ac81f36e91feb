package daqmx

import "github.com/acqlab/tdms/format"

// Column holds one scaler's decoded samples for one chunk: a typed slice of
// the scaler's native container type. Columns own their backing slice; the
// decoder never aliases raw buffer bytes into a Column.
type Column struct {
	dataType format.DataType
	data     any
}

// newColumn wraps a typed slice. The slice type must match dataType; the
// decoder guarantees this by construction.
func newColumn(dataType format.DataType, data any) Column {
	return Column{dataType: dataType, data: data}
}

// NewColumn returns an empty column of the given container type with room
// for capacity samples. It reports false when dataType is not a scaler
// container type.
//
// Callers stitching chunks from many segments pre-size the destination once
// and let Append fill it without reallocating.
func NewColumn(dataType format.DataType, capacity int) (Column, bool) {
	switch dataType {
	case format.Uint8:
		return newColumn(dataType, make([]uint8, 0, capacity)), true
	case format.Int8:
		return newColumn(dataType, make([]int8, 0, capacity)), true
	case format.Uint16:
		return newColumn(dataType, make([]uint16, 0, capacity)), true
	case format.Int16:
		return newColumn(dataType, make([]int16, 0, capacity)), true
	case format.Uint32:
		return newColumn(dataType, make([]uint32, 0, capacity)), true
	case format.Int32:
		return newColumn(dataType, make([]int32, 0, capacity)), true
	default:
		return Column{}, false
	}
}

// DataType returns the native container type of the samples.
func (c Column) DataType() format.DataType {
	return c.dataType
}

// Len returns the number of samples in the column.
func (c Column) Len() int {
	switch vals := c.data.(type) {
	case []uint8:
		return len(vals)
	case []int8:
		return len(vals)
	case []uint16:
		return len(vals)
	case []int16:
		return len(vals)
	case []uint32:
		return len(vals)
	case []int32:
		return len(vals)
	default:
		return 0
	}
}

// IsZero reports whether the column holds no decoded data at all, as
// opposed to an empty column of a known type.
func (c Column) IsZero() bool {
	return c.data == nil
}

// Samples returns the column's backing slice as type T. It reports false
// when T is not the column's native container type.
//
// The returned slice is the column's own storage, not a copy; callers that
// mutate it see the change reflected in the column.
func Samples[T RawSample](c Column) ([]T, bool) {
	vals, ok := c.data.([]T)
	return vals, ok
}

// Uint8s returns the backing slice when the column holds uint8 samples.
func (c Column) Uint8s() ([]uint8, bool) { return Samples[uint8](c) }

// Int8s returns the backing slice when the column holds int8 samples.
func (c Column) Int8s() ([]int8, bool) { return Samples[int8](c) }

// Uint16s returns the backing slice when the column holds uint16 samples.
func (c Column) Uint16s() ([]uint16, bool) { return Samples[uint16](c) }

// Int16s returns the backing slice when the column holds int16 samples.
func (c Column) Int16s() ([]int16, bool) { return Samples[int16](c) }

// Uint32s returns the backing slice when the column holds uint32 samples.
func (c Column) Uint32s() ([]uint32, bool) { return Samples[uint32](c) }

// Int32s returns the backing slice when the column holds int32 samples.
func (c Column) Int32s() ([]int32, bool) { return Samples[int32](c) }

// Float64s returns the samples widened to float64 in a freshly allocated
// slice. It returns nil for a zero column.
func (c Column) Float64s() []float64 {
	switch vals := c.data.(type) {
	case []uint8:
		return widen(vals)
	case []int8:
		return widen(vals)
	case []uint16:
		return widen(vals)
	case []int16:
		return widen(vals)
	case []uint32:
		return widen(vals)
	case []int32:
		return widen(vals)
	default:
		return nil
	}
}

// Append appends other's samples to this column, returning the combined
// column. A zero receiver adopts other unchanged. Appending columns of
// different container types reports false.
//
// The file layer uses this to stitch one channel's chunks from consecutive
// segments into a single column.
func (c Column) Append(other Column) (Column, bool) {
	if c.IsZero() {
		return other, true
	}
	if other.IsZero() {
		return c, true
	}
	if c.dataType != other.dataType {
		return c, false
	}

	switch vals := c.data.(type) {
	case []uint8:
		o, _ := other.data.([]uint8)
		c.data = append(vals, o...)
	case []int8:
		o, _ := other.data.([]int8)
		c.data = append(vals, o...)
	case []uint16:
		o, _ := other.data.([]uint16)
		c.data = append(vals, o...)
	case []int16:
		o, _ := other.data.([]int16)
		c.data = append(vals, o...)
	case []uint32:
		o, _ := other.data.([]uint32)
		c.data = append(vals, o...)
	case []int32:
		o, _ := other.data.([]int32)
		c.data = append(vals, o...)
	default:
		return c, false
	}

	return c, true
}

func widen[T RawSample](vals []T) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}

	return out
}
