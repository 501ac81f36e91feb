package tdms

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acqlab/tdms/daqmx"
	"github.com/acqlab/tdms/errs"
	"github.com/acqlab/tdms/format"
	"github.com/acqlab/tdms/segment"
)

// Raw index header markers as written on disk.
const (
	noDataHeader        uint32 = 0xFFFFFFFF
	matchPreviousHeader uint32 = 0x00000000
)

func appendLenString(b []byte, e binary.AppendByteOrder, s string) []byte {
	b = e.AppendUint32(b, uint32(len(s)))
	return append(b, s...)
}

// propBytes builds one name/type/value property triple with a pre-encoded
// value.
func propBytes(e binary.AppendByteOrder, name string, dataType format.DataType, value []byte) []byte {
	b := appendLenString(nil, e, name)
	b = e.AppendUint32(b, uint32(dataType))

	return append(b, value...)
}

func stringProp(e binary.AppendByteOrder, name, value string) []byte {
	return propBytes(e, name, format.String, appendLenString(nil, e, value))
}

func u32Prop(e binary.AppendByteOrder, name string, value uint32) []byte {
	return propBytes(e, name, format.Uint32, e.AppendUint32(nil, value))
}

func f64Prop(e binary.AppendByteOrder, name string, value float64) []byte {
	return propBytes(e, name, format.DoubleFloat, e.AppendUint64(nil, math.Float64bits(value)))
}

func standardIndexBody(e binary.AppendByteOrder, dataType format.DataType, dimension uint32, count uint64) []byte {
	b := e.AppendUint32(nil, uint32(dataType))
	b = e.AppendUint32(b, dimension)

	return e.AppendUint64(b, count)
}

func fcScalerRecord(e binary.AppendByteOrder, typeCode, bufIdx, byteOff, bitmap, scaleID uint32) []byte {
	b := e.AppendUint32(nil, typeCode)
	b = e.AppendUint32(b, bufIdx)
	b = e.AppendUint32(b, byteOff)
	b = e.AppendUint32(b, bitmap)

	return e.AppendUint32(b, scaleID)
}

func daqmxIndexBody(e binary.AppendByteOrder, chunkSize uint64, scalers [][]byte, widths []uint32) []byte {
	b := e.AppendUint32(nil, uint32(format.DAQmxRawData))
	b = e.AppendUint32(b, 1) // dimension
	b = e.AppendUint64(b, chunkSize)
	b = e.AppendUint32(b, uint32(len(scalers)))
	for _, s := range scalers {
		b = append(b, s...)
	}
	b = e.AppendUint32(b, uint32(len(widths)))
	for _, w := range widths {
		b = e.AppendUint32(b, w)
	}

	return b
}

func objectEntry(e binary.AppendByteOrder, path string, header uint32, indexBody []byte, props ...[]byte) []byte {
	b := appendLenString(nil, e, path)
	b = e.AppendUint32(b, header)
	b = append(b, indexBody...)
	b = e.AppendUint32(b, uint32(len(props)))
	for _, p := range props {
		b = append(b, p...)
	}

	return b
}

func metadataSection(e binary.AppendByteOrder, entries ...[]byte) []byte {
	b := e.AppendUint32(nil, uint32(len(entries)))
	for _, entry := range entries {
		b = append(b, entry...)
	}

	return b
}

// segmentWithOffsets assembles a full segment with an explicit next-segment
// offset. The ToC mask is little-endian regardless of the data byte order.
func segmentWithOffsets(toc segment.ToC, meta, raw []byte, next uint64) []byte {
	e := toc.Engine()
	b := []byte("TDSm")
	b = binary.LittleEndian.AppendUint32(b, uint32(toc))
	b = e.AppendUint32(b, segment.TDMSVersion2)
	b = e.AppendUint64(b, next)
	b = e.AppendUint64(b, uint64(len(meta)))
	b = append(b, meta...)

	return append(b, raw...)
}

// testSegment assembles one complete segment: lead-in, metadata, raw data.
func testSegment(toc segment.ToC, meta, raw []byte) []byte {
	return segmentWithOffsets(toc, meta, raw, uint64(len(meta)+len(raw)))
}

// openSegment assembles a segment whose writer never patched the lead-in,
// leaving the next-segment offset at the incomplete sentinel.
func openSegment(toc segment.ToC, meta, raw []byte) []byte {
	return segmentWithOffsets(toc, meta, raw, segment.NoNextSegmentOffset)
}

// aiRow packs one interleaved row of the two-channel voltage fixture: a
// uint16 sample at byte 0 and an int16 sample at byte 2.
func aiRow(e binary.AppendByteOrder, a uint16, b int16) []byte {
	buf := e.AppendUint16(nil, a)
	return e.AppendUint16(buf, uint16(b))
}

const daqmxToC = segment.TocMetaData | segment.TocNewObjList | segment.TocRawData | segment.TocDAQmxRawData

// voltageFile builds a three-segment DAQmx capture exercising the main
// segment mechanics:
//
//   - segment 1 declares the full object tree and two chunks of data for
//     channels ai0 (uint16 at byte 0) and ai1 (int16 at byte 2), sharing a
//     4-byte-wide raw buffer with two rows per chunk
//   - segment 2 has no metadata section and rides on the carried object
//     list, adding one chunk
//   - segment 3 re-lists ai0 with a match-previous index to override its
//     unit property, adding one more chunk
//
// ai0 ends up with samples 100..800, ai1 with -1..-8.
func voltageFile() []byte {
	le := binary.LittleEndian

	meta1 := metadataSection(le,
		objectEntry(le, "/", noDataHeader, nil,
			stringProp(le, "author", "lab"),
		),
		objectEntry(le, "/'daq'", noDataHeader, nil,
			stringProp(le, "description", "bench rig"),
		),
		objectEntry(le, "/'daq'/'ai0'", daqmx.FormatChangingScalerHeader,
			daqmxIndexBody(le, 2, [][]byte{fcScalerRecord(le, 2, 0, 0, 0, 0)}, []uint32{4}),
			stringProp(le, "unit_string", "V"),
		),
		objectEntry(le, "/'daq'/'ai1'", daqmx.FormatChangingScalerHeader,
			daqmxIndexBody(le, 2, [][]byte{fcScalerRecord(le, 3, 0, 2, 0, 0)}, []uint32{4}),
		),
	)
	raw1 := aiRow(le, 100, -1)
	raw1 = append(raw1, aiRow(le, 200, -2)...)
	raw1 = append(raw1, aiRow(le, 300, -3)...)
	raw1 = append(raw1, aiRow(le, 400, -4)...)

	file := testSegment(daqmxToC, meta1, raw1)

	raw2 := aiRow(le, 500, -5)
	raw2 = append(raw2, aiRow(le, 600, -6)...)
	file = append(file, testSegment(segment.TocRawData|segment.TocDAQmxRawData, nil, raw2)...)

	meta3 := metadataSection(le,
		objectEntry(le, "/'daq'/'ai0'", matchPreviousHeader, nil,
			stringProp(le, "unit_string", "mV"),
		),
	)
	raw3 := aiRow(le, 700, -7)
	raw3 = append(raw3, aiRow(le, 800, -8)...)
	file = append(file, testSegment(segment.TocMetaData|segment.TocRawData|segment.TocDAQmxRawData, meta3, raw3)...)

	return file
}

func TestOpen_Directory(t *testing.T) {
	f, err := Open(bytes.NewReader(voltageFile()))
	require.NoError(t, err)

	require.Equal(t, uint32(segment.TDMSVersion2), f.Version())
	require.Equal(t, []string{"daq"}, f.GroupNames())

	author, ok := f.Properties().GetString("author")
	require.True(t, ok)
	require.Equal(t, "lab", author)

	group, err := f.Group("daq")
	require.NoError(t, err)
	desc, ok := group.Properties().GetString("description")
	require.True(t, ok)
	require.Equal(t, "bench rig", desc)
	require.Len(t, group.Channels(), 2)

	require.Len(t, f.Channels(), 2)
	require.Len(t, f.Groups(), 1)

	ch, err := f.Channel("daq", "ai0")
	require.NoError(t, err)
	require.Equal(t, "ai0", ch.Name())
	require.Equal(t, "daq", ch.GroupName())
	require.Equal(t, "/'daq'/'ai0'", ch.Path())
	require.Equal(t, format.DAQmxRawData, ch.DataType())
	require.Equal(t, uint64(8), ch.NumberValues())
	require.True(t, ch.IsDAQmx())
	require.Equal(t, map[uint32]format.DataType{0: format.Uint16}, ch.ScalerTypes())
	require.Len(t, ch.Scalers(), 1)
}

func TestOpen_PropertyOverride(t *testing.T) {
	f, err := Open(bytes.NewReader(voltageFile()))
	require.NoError(t, err)

	ch, err := f.Channel("daq", "ai0")
	require.NoError(t, err)

	// Segment 3 re-declared the unit; the last write wins.
	unit, ok := ch.Properties().GetString("unit_string")
	require.True(t, ok)
	require.Equal(t, "mV", unit)
}

func TestOpen_Lookups(t *testing.T) {
	f, err := Open(bytes.NewReader(voltageFile()))
	require.NoError(t, err)

	_, err = f.Group("nope")
	require.ErrorIs(t, err, errs.ErrGroupNotFound)

	_, err = f.Channel("daq", "nope")
	require.ErrorIs(t, err, errs.ErrChannelNotFound)

	// A group path is not a channel path.
	_, err = f.Channel("daq", "")
	require.ErrorIs(t, err, errs.ErrChannelNotFound)

	group, err := f.Group("daq")
	require.NoError(t, err)
	ch, err := group.Channel("ai1")
	require.NoError(t, err)
	require.Equal(t, "/'daq'/'ai1'", ch.Path())
}

func TestOpen_EmptyStream(t *testing.T) {
	f, err := Open(bytes.NewReader(nil))
	require.NoError(t, err)
	require.Empty(t, f.Channels())
	require.Empty(t, f.GroupNames())
	require.Nil(t, f.Properties())
}

func TestOpen_NotTDMS(t *testing.T) {
	t.Run("wrong tag", func(t *testing.T) {
		_, err := Open(bytes.NewReader(bytes.Repeat([]byte("nope"), 16)))
		require.ErrorIs(t, err, errs.ErrInvalidLeadInTag)
	})

	t.Run("shorter than a lead-in", func(t *testing.T) {
		_, err := Open(bytes.NewReader([]byte("TDSm\x00")))
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfData)
	})
}

func TestOpen_OptionValidation(t *testing.T) {
	_, err := Open(bytes.NewReader(voltageFile()), WithMaxArchiveSize(0))
	require.Error(t, err)
	require.Contains(t, err.Error(), "must be positive")
}

func TestOpen_BigEndianSegment(t *testing.T) {
	be := binary.BigEndian
	meta := metadataSection(be,
		objectEntry(be, "/'g'/'c'", daqmx.FormatChangingScalerHeader,
			daqmxIndexBody(be, 2, [][]byte{fcScalerRecord(be, 2, 0, 0, 0, 0)}, []uint32{2}),
		),
	)
	raw := be.AppendUint16(nil, 0x1234)
	raw = be.AppendUint16(raw, 0xABCD)

	f, err := Open(bytes.NewReader(testSegment(daqmxToC|segment.TocBigEndian, meta, raw)))
	require.NoError(t, err)

	ch, err := f.Channel("g", "c")
	require.NoError(t, err)

	col, err := ch.ReadScaler(0)
	require.NoError(t, err)
	vals, ok := col.Uint16s()
	require.True(t, ok)
	require.Equal(t, []uint16{0x1234, 0xABCD}, vals)
}

// singleChannelSegment declares one uint16 DAQmx channel with two rows per
// chunk in a 2-byte-wide buffer.
func singleChannelSegment(vals ...uint16) (meta, raw []byte) {
	le := binary.LittleEndian
	meta = metadataSection(le,
		objectEntry(le, "/'g'/'c'", daqmx.FormatChangingScalerHeader,
			daqmxIndexBody(le, 2, [][]byte{fcScalerRecord(le, 2, 0, 0, 0, 0)}, []uint32{2}),
		),
	)
	for _, v := range vals {
		raw = le.AppendUint16(raw, v)
	}

	return meta, raw
}

func TestOpen_InterruptedWriter(t *testing.T) {
	meta, raw := singleChannelSegment(1, 2, 3, 4)
	file := testSegment(daqmxToC, meta, raw)

	// The writer died mid-chunk: sentinel offsets, one complete chunk plus
	// half of the next.
	le := binary.LittleEndian
	tail := le.AppendUint16(nil, 5)
	tail = le.AppendUint16(tail, 6)
	tail = le.AppendUint16(tail, 7)
	file = append(file, openSegment(segment.TocRawData|segment.TocDAQmxRawData, nil, tail)...)

	t.Run("salvages complete chunks", func(t *testing.T) {
		f, err := Open(bytes.NewReader(file))
		require.NoError(t, err)

		ch, err := f.Channel("g", "c")
		require.NoError(t, err)
		require.Equal(t, uint64(6), ch.NumberValues())

		col, err := ch.ReadScaler(0)
		require.NoError(t, err)
		vals, ok := col.Uint16s()
		require.True(t, ok)
		require.Equal(t, []uint16{1, 2, 3, 4, 5, 6}, vals)
	})

	t.Run("strict mode rejects the partial chunk", func(t *testing.T) {
		_, err := Open(bytes.NewReader(file), WithStrictChunks())
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfData)
	})
}

func TestOpen_DeclaredDataBeyondFileEnd(t *testing.T) {
	meta, raw := singleChannelSegment(1, 2)

	// The lead-in promises 20 bytes of data that were never written; only
	// the one complete chunk that exists survives.
	file := segmentWithOffsets(daqmxToC, meta, raw, uint64(len(meta)+len(raw)+20))

	f, err := Open(bytes.NewReader(file))
	require.NoError(t, err)

	ch, err := f.Channel("g", "c")
	require.NoError(t, err)
	require.Equal(t, uint64(1*2), ch.NumberValues())

	col, err := ch.ReadScaler(0)
	require.NoError(t, err)
	vals, ok := col.Uint16s()
	require.True(t, ok)
	require.Equal(t, []uint16{1, 2}, vals)
}

func TestOpen_MetadataOnlySegments(t *testing.T) {
	le := binary.LittleEndian

	// No raw data anywhere, just properties spread over two segments.
	meta1 := metadataSection(le,
		objectEntry(le, "/'g'", noDataHeader, nil, u32Prop(le, "runs", 1)),
	)
	meta2 := metadataSection(le,
		objectEntry(le, "/'g'", noDataHeader, nil, u32Prop(le, "runs", 2)),
	)
	file := testSegment(segment.TocMetaData|segment.TocNewObjList, meta1, nil)
	file = append(file, testSegment(segment.TocMetaData|segment.TocNewObjList, meta2, nil)...)

	f, err := Open(bytes.NewReader(file))
	require.NoError(t, err)
	require.Equal(t, []string{"g"}, f.GroupNames())
	require.Empty(t, f.Channels())

	group, err := f.Group("g")
	require.NoError(t, err)
	runs, ok := group.Properties().GetUint32("runs")
	require.True(t, ok)
	require.Equal(t, uint32(2), runs)
}

func TestOpen_MalformedObjectPath(t *testing.T) {
	le := binary.LittleEndian
	meta := metadataSection(le,
		objectEntry(le, "group-without-slash", noDataHeader, nil),
	)

	_, err := Open(bytes.NewReader(testSegment(segment.TocMetaData|segment.TocNewObjList, meta, nil)))
	require.ErrorIs(t, err, errs.ErrInvalidFormat)
}
