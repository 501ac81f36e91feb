package segment

import (
	"fmt"

	"github.com/acqlab/tdms/daqmx"
	"github.com/acqlab/tdms/errs"
	"github.com/acqlab/tdms/stream"
)

// Metadata is a segment's effective ordered object list: the entries read
// from this segment's metadata section, merged onto the previous segment's
// list when the ToC says the list continues.
type Metadata struct {
	Objects []*Object

	index map[string]int
}

// ReadMetadata reads the metadata section of one segment.
//
// prev is the previous segment's metadata, or nil for the first segment.
// Without TocNewObjList the previous object list carries over and this
// segment's entries update or extend it; raw indexes declaring "same as
// previous segment" resolve against prev in either case.
//
// Parameters:
//   - r: Reader positioned at the metadata section, using the segment's
//     byte order
//   - toc: The segment's ToC mask
//   - prev: Previous segment's metadata, or nil
//
// Returns:
//   - *Metadata: Ordered objects active in this segment
//   - error: ErrInvalidFormat on an unresolvable index reference,
//     ErrUnexpectedEndOfData on truncation, or a daqmx metadata error
func ReadMetadata(r *stream.Reader, toc ToC, prev *Metadata) (*Metadata, error) {
	m := &Metadata{index: make(map[string]int)}

	if prev != nil && !toc.HasNewObjList() {
		for _, po := range prev.Objects {
			m.put(po.clone())
		}
	}

	if !toc.HasMetaData() {
		return m, nil
	}

	count, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading object count: %w", err)
	}

	for i := uint32(0); i < count; i++ {
		if err := m.readObject(r, prev); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}

	return m, nil
}

func (m *Metadata) readObject(r *stream.Reader, prev *Metadata) error {
	path, err := r.ReadString()
	if err != nil {
		return fmt.Errorf("reading path: %w", err)
	}

	header, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("reading raw index header: %w", err)
	}

	obj, exists := m.Lookup(path)
	if !exists {
		obj = &Object{Path: path}
	}

	switch {
	case header == rawIndexNoData:
		obj.hasRawData = false

	case header == rawIndexMatchPrevious:
		src, ok := m.Lookup(path)
		if !ok || !src.hasLayout {
			if prev != nil {
				src, ok = prev.Lookup(path)
			} else {
				ok = false
			}
		}
		if !ok || !src.hasLayout {
			return fmt.Errorf("%w: %q reuses a raw index no earlier segment defined", errs.ErrInvalidFormat, path)
		}
		obj.layoutFrom(src)
		obj.hasRawData = true

	case daqmx.IsScalerHeader(header):
		if err := obj.readDAQmxIndex(r, header); err != nil {
			return fmt.Errorf("%q: %w", path, err)
		}

	default:
		if err := obj.readStandardIndex(r); err != nil {
			return fmt.Errorf("%q: %w", path, err)
		}
	}

	propCount, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("%q: reading property count: %w", path, err)
	}
	for i := uint32(0); i < propCount; i++ {
		prop, err := readProperty(r)
		if err != nil {
			return fmt.Errorf("%q: %w", path, err)
		}
		obj.Properties.Upsert(prop)
	}

	if !exists {
		m.put(obj)
	}

	return nil
}

// put appends a new object, or replaces the entry at its path's position.
func (m *Metadata) put(obj *Object) {
	if i, ok := m.index[obj.Path]; ok {
		m.Objects[i] = obj
		return
	}

	m.index[obj.Path] = len(m.Objects)
	m.Objects = append(m.Objects, obj)
}

// Lookup returns the object at the given path.
func (m *Metadata) Lookup(path string) (*Object, bool) {
	i, ok := m.index[path]
	if !ok {
		return nil, false
	}

	return m.Objects[i], true
}

// HasDAQmxData returns whether any object carries DAQmx raw data in this
// segment.
func (m *Metadata) HasDAQmxData() bool {
	for _, o := range m.Objects {
		if o.hasRawData && o.DAQmx != nil {
			return true
		}
	}

	return false
}

// ChunkObjects returns the decoder's view of the objects carrying raw data,
// in segment order.
func (m *Metadata) ChunkObjects() []daqmx.ChunkObject {
	var objs []daqmx.ChunkObject
	for _, o := range m.Objects {
		if !o.hasRawData {
			continue
		}
		objs = append(objs, daqmx.ChunkObject{Path: o.Path, DataType: o.DataType, Meta: o.DAQmx})
	}

	return objs
}

// ChunkBytes returns the byte size of one raw-data chunk.
//
// DAQmx objects share their raw buffers, so the first object with a nonzero
// extent defines the chunk size for all of them. Standard objects each own a
// slice of the chunk, so their sizes sum.
func (m *Metadata) ChunkBytes() uint64 {
	if m.HasDAQmxData() {
		return daqmx.ChunkBytes(m.ChunkObjects())
	}

	var total uint64
	for _, o := range m.Objects {
		if o.hasRawData {
			total += o.DataSize
		}
	}

	return total
}

// NumChunks returns how many complete chunks fit in dataBytes of raw data,
// and how many bytes trail after the last complete chunk. A trailing
// remainder appears when a writer was interrupted mid-chunk.
func (m *Metadata) NumChunks(dataBytes uint64) (chunks, remainder uint64) {
	size := m.ChunkBytes()
	if size == 0 {
		return 0, 0
	}

	return dataBytes / size, dataBytes % size
}
