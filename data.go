package tdms

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/acqlab/tdms/daqmx"
	"github.com/acqlab/tdms/errs"
	"github.com/acqlab/tdms/scale"
	"github.com/acqlab/tdms/stream"
)

// rawReadBufferSize is the buffered-reader size for the data pass. Chunk
// decoding issues many small reads; the buffer turns them into few large
// ones.
const rawReadBufferSize = 256 << 10

// loadData decodes every recorded DAQmx segment and stitches the chunk
// columns into per-channel caches. It runs once; later calls are free.
func (f *File) loadData() error {
	if f.dataLoaded {
		return nil
	}
	if len(f.segments) > 0 && f.r == nil {
		return fmt.Errorf("reading raw data: %w", os.ErrClosed)
	}

	f.preallocColumns()

	for _, seg := range f.segments {
		if _, err := f.r.Seek(seg.dataPos, io.SeekStart); err != nil {
			return fmt.Errorf("seeking raw data at offset %d: %w", seg.dataPos, err)
		}

		sr := stream.NewReader(bufio.NewReaderSize(f.r, rawReadBufferSize), seg.toc.Engine())
		objects := seg.meta.ChunkObjects()

		for chunk := uint64(0); chunk < seg.chunks; chunk++ {
			data, err := daqmx.DecodeChunk(sr, objects)
			if err != nil {
				return fmt.Errorf("chunk %d of segment data at offset %d: %w", chunk, seg.dataPos, err)
			}
			if err := f.mergeChunk(data); err != nil {
				return err
			}
		}
	}

	f.dataLoaded = true

	return nil
}

// preallocColumns sizes each DAQmx channel's cache columns from the value
// totals the scan collected, so chunk stitching appends into place instead
// of growing.
func (f *File) preallocColumns() {
	for _, fo := range f.objects {
		if fo.daqmx == nil || fo.columns != nil {
			continue
		}
		fo.columns = make(map[uint32]daqmx.Column, len(fo.daqmx.Scalers))
		for _, sc := range fo.daqmx.Scalers {
			if col, ok := daqmx.NewColumn(sc.DataType(), int(fo.totalValues)); ok {
				fo.columns[sc.ScaleID()] = col
			}
		}
	}
}

// mergeChunk appends one decoded chunk's columns onto the channel caches.
func (f *File) mergeChunk(data daqmx.ChunkData) error {
	for path, scalers := range data {
		fo, err := f.object(path)
		if err != nil {
			return err
		}
		if fo.columns == nil {
			fo.columns = make(map[uint32]daqmx.Column, len(scalers))
		}

		for id, col := range scalers {
			merged, ok := fo.columns[id].Append(col)
			if !ok {
				return fmt.Errorf("%w: channel %s scaler %d changes container type between segments", errs.ErrMixedDataTypes, path, id)
			}
			fo.columns[id] = merged
		}
	}

	return nil
}

// ReadRaw returns the channel's decoded scaler columns keyed by scale id,
// concatenated across all segments.
//
// The first data read on a File decodes every DAQmx segment and caches the
// result; ReadRaw returns a fresh map over the cached columns. The columns
// share the cache's backing storage, so treat the samples as read-only.
//
// Returns:
//   - map[uint32]daqmx.Column: One column per scaler
//   - error: ErrNonDAQmxData for channels without DAQmx data, or any decode
//     error from the data pass
func (c *Channel) ReadRaw() (map[uint32]daqmx.Column, error) {
	if c.obj.daqmx == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrNonDAQmxData, c.obj.path)
	}
	if err := c.file.loadData(); err != nil {
		return nil, err
	}
	if c.obj.columns == nil {
		return map[uint32]daqmx.Column{}, nil
	}

	return maps.Clone(c.obj.columns), nil
}

// ReadScaler returns the decoded column of one scaler, concatenated across
// all segments. It fails with ErrScalerDataMissing when the channel has no
// scaler with the given scale id.
func (c *Channel) ReadScaler(scaleID uint32) (daqmx.Column, error) {
	if c.obj.daqmx == nil {
		return daqmx.Column{}, fmt.Errorf("%w: %s", errs.ErrNonDAQmxData, c.obj.path)
	}
	if err := c.file.loadData(); err != nil {
		return daqmx.Column{}, err
	}

	col, ok := c.obj.columns[scaleID]
	if !ok {
		return daqmx.Column{}, fmt.Errorf("%w: channel %s has no scaler with scale id %d", errs.ErrScalerDataMissing, c.obj.path, scaleID)
	}

	return col, nil
}

// Read returns the channel's samples as float64, with the channel's NI
// scaling chain applied when its properties define one.
//
// Without a chain the raw samples are widened and returned as-is. The chain
// input is the scale id 0 column, or the only column of a single-scaler
// channel.
//
// Returns:
//   - []float64: One value per sample row, freshly allocated
//   - error: ErrNonDAQmxData, ErrScalerDataMissing, or a scale definition
//     error from the channel properties
func (c *Channel) Read() ([]float64, error) {
	if c.obj.daqmx == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrNonDAQmxData, c.obj.path)
	}

	chain, err := scale.FromProperties(c.obj.props)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", c.obj.path, err)
	}

	raw, err := c.rawInput()
	if err != nil {
		return nil, err
	}

	vals := raw.Float64s()
	if chain == nil {
		return vals, nil
	}

	scaled, err := chain.Scale(vals)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", c.obj.path, err)
	}

	return scaled, nil
}

// rawInput picks the column feeding Read: scale id 0 when present, else the
// single column of a one-scaler channel.
func (c *Channel) rawInput() (daqmx.Column, error) {
	if err := c.file.loadData(); err != nil {
		return daqmx.Column{}, err
	}

	if col, ok := c.obj.columns[0]; ok {
		return col, nil
	}
	if len(c.obj.columns) == 1 {
		for _, col := range c.obj.columns {
			return col, nil
		}
	}

	return daqmx.Column{}, fmt.Errorf("%w: channel %s has no scale id 0 column", errs.ErrScalerDataMissing, c.obj.path)
}
