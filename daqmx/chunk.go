package daqmx

import (
	"fmt"
	"math"
	"sync"

	"github.com/acqlab/tdms/endian"
	"github.com/acqlab/tdms/errs"
	"github.com/acqlab/tdms/format"
	"github.com/acqlab/tdms/internal/pool"
	"github.com/acqlab/tdms/stream"
)

// ChunkObject is one channel's participation in a segment's data chunks:
// its path, its declared data type, and its DAQmx metadata.
type ChunkObject struct {
	// Path is the channel's object path.
	Path string
	// DataType is the channel's declared data type in this segment.
	DataType format.DataType
	// Meta is the channel's DAQmx metadata, nil for non-DAQmx channels.
	Meta *Metadata
}

// ChunkData maps channel path to scale id to decoded column for one chunk.
// Every column has ChunkSize samples.
type ChunkData map[string]map[uint32]Column

// ChunkBytes resolves the byte size of one data chunk across a segment's
// channel objects.
//
// All DAQmx channels in a segment read from the same raw buffers, so the
// chunk size is a segment-level quantity, not a per-channel sum: the first
// channel whose rows × total raw width is nonzero defines it. A segment
// where every channel is empty has chunk size 0.
func ChunkBytes(objects []ChunkObject) uint64 {
	for _, obj := range objects {
		if obj.Meta == nil {
			continue
		}
		if size := obj.Meta.DataSize(); size != 0 {
			return size
		}
	}

	return 0
}

type scalerTask struct {
	path   string
	scaler Scaler
}

// DecodeChunk decodes one data chunk into per-channel, per-scaler columns.
//
// The reader must be positioned at the first byte of the chunk. The chunk
// consists of one interleaved block per raw buffer, in ascending buffer
// order: ChunkSize rows of RawDataWidths[b] bytes each. For every scaler
// sourcing from buffer b, the bytes at its per-row offset are gathered
// across all rows, decoded with the segment's byte order, and
// post-processed into final samples.
//
// Every scaler is validated against its buffer's declared width before any
// byte is read, so a failed decode never leaves partially consumed rows.
// With multiple raw buffers the per-buffer gather work runs on one
// goroutine per buffer; buffer reads stay sequential and ordered.
//
// Parameters:
//   - r: Stream reader positioned at the chunk start
//   - objects: The segment's channel objects in declared order
//
// Returns:
//   - ChunkData: Decoded columns keyed by channel path and scale id
//   - error: ErrMixedDataTypes if any object is not DAQmx raw data,
//     ErrInvalidOffset for scaler ranges outside their buffer,
//     ErrUnexpectedEndOfData for a truncated chunk
func DecodeChunk(r *stream.Reader, objects []ChunkObject) (ChunkData, error) {
	for _, obj := range objects {
		if obj.DataType != format.DAQmxRawData || obj.Meta == nil {
			return nil, fmt.Errorf("%w: object %q has data type %s", errs.ErrMixedDataTypes, obj.Path, obj.DataType)
		}
	}
	if len(objects) == 0 {
		return ChunkData{}, nil
	}

	// Chunk geometry is shared across all channels in the segment; the
	// format repeats it per channel and the first copy is authoritative.
	meta := objects[0].Meta
	widths := meta.RawDataWidths
	if meta.ChunkSize > math.MaxInt32 {
		return nil, fmt.Errorf("%w: chunk size %d exceeds decoder limit", errs.ErrInvalidFormat, meta.ChunkSize)
	}
	rows := int(meta.ChunkSize)

	// Group scalers by source buffer, validating every byte range against
	// its buffer stride before any byte is read.
	tasks := make([][]scalerTask, len(widths))
	for _, obj := range objects {
		for _, sc := range obj.Meta.Scalers {
			b := int(sc.RawBufferIndex())
			if b >= len(widths) {
				return nil, fmt.Errorf("%w: scaler %v references buffer %d of %d", errs.ErrInvalidOffset, sc, b, len(widths))
			}

			end := uint64(sc.ByteOffset()) + uint64(sc.DataType().Size())
			if end > uint64(widths[b]) {
				return nil, fmt.Errorf("%w: scaler %v needs row bytes [%d,%d) in a %d byte row",
					errs.ErrInvalidOffset, sc, sc.ByteOffset(), end, widths[b])
			}

			tasks[b] = append(tasks[b], scalerTask{path: obj.Path, scaler: sc})
		}
	}

	engine := r.Engine()
	partials := make([]ChunkData, len(widths))

	// Buffers are consumed from the stream in ascending index order. With
	// more than one buffer the gather work overlaps the remaining reads;
	// each worker fills its own partial, so nothing is shared until the
	// merge below.
	var wg sync.WaitGroup
	parallel := len(widths) > 1

	for b, w := range widths {
		stride := int(w)
		need := uint64(stride) * uint64(rows)
		if need > math.MaxInt32 {
			wg.Wait()
			return nil, fmt.Errorf("%w: raw buffer %d spans %d bytes", errs.ErrInvalidFormat, b, need)
		}

		buf := pool.GetChunkBuffer()
		buf.ExtendOrGrow(int(need))
		if err := r.ReadFull(buf.Bytes()); err != nil {
			pool.PutChunkBuffer(buf)
			wg.Wait()

			return nil, fmt.Errorf("raw buffer %d: %w", b, err)
		}

		if parallel {
			wg.Add(1)
			go func(b, stride int, buf *pool.ByteBuffer) {
				defer wg.Done()
				partials[b] = decodeBuffer(buf.Bytes(), stride, rows, engine, tasks[b])
				pool.PutChunkBuffer(buf)
			}(b, stride, buf)
		} else {
			partials[b] = decodeBuffer(buf.Bytes(), stride, rows, engine, tasks[b])
			pool.PutChunkBuffer(buf)
		}
	}

	wg.Wait()

	// Merge per-buffer partials. (path, scale id) pairs from different
	// buffers are disjoint, so merging is adoption, never overwriting.
	result := make(ChunkData, len(objects))
	for _, partial := range partials {
		for path, byID := range partial {
			dst := result[path]
			if dst == nil {
				result[path] = byID
				continue
			}
			for id, col := range byID {
				dst[id] = col
			}
		}
	}

	return result, nil
}

func decodeBuffer(buf []byte, stride, rows int, engine endian.EndianEngine, tasks []scalerTask) ChunkData {
	if len(tasks) == 0 {
		return nil
	}

	out := make(ChunkData)
	for _, task := range tasks {
		col := gatherColumn(buf, stride, rows, task.scaler, engine)
		task.scaler.postprocess(col)

		byID := out[task.path]
		if byID == nil {
			byID = make(map[uint32]Column)
			out[task.path] = byID
		}
		byID[task.scaler.ScaleID()] = col
	}

	return out
}

// gatherColumn selects the scaler's byte range from every row of one raw
// buffer and decodes it into an owned typed column. Multi-byte values are
// reassembled through the engine, never reinterpreted via host memory
// layout.
func gatherColumn(buf []byte, stride, rows int, sc Scaler, engine endian.EndianEngine) Column {
	off := int(sc.ByteOffset())

	switch sc.DataType() {
	case format.Uint8:
		out := make([]uint8, rows)
		for i := range out {
			out[i] = buf[i*stride+off]
		}

		return newColumn(format.Uint8, out)
	case format.Int8:
		out := make([]int8, rows)
		for i := range out {
			out[i] = int8(buf[i*stride+off])
		}

		return newColumn(format.Int8, out)
	case format.Uint16:
		out := make([]uint16, rows)
		for i := range out {
			pos := i*stride + off
			out[i] = engine.Uint16(buf[pos : pos+2])
		}

		return newColumn(format.Uint16, out)
	case format.Int16:
		out := make([]int16, rows)
		for i := range out {
			pos := i*stride + off
			out[i] = int16(engine.Uint16(buf[pos : pos+2]))
		}

		return newColumn(format.Int16, out)
	case format.Uint32:
		out := make([]uint32, rows)
		for i := range out {
			pos := i*stride + off
			out[i] = engine.Uint32(buf[pos : pos+4])
		}

		return newColumn(format.Uint32, out)
	case format.Int32:
		out := make([]int32, rows)
		for i := range out {
			pos := i*stride + off
			out[i] = int32(engine.Uint32(buf[pos : pos+4]))
		}

		return newColumn(format.Int32, out)
	default:
		// Scaler data types are validated when metadata is parsed.
		panic("daqmx: scaler with invalid data type")
	}
}
