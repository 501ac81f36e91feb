package segment

import (
	"strings"

	"github.com/acqlab/tdms/endian"
)

// ToC is the table-of-contents bitmask from a segment lead-in. It announces
// what the segment carries and how its numeric fields are laid out.
//
// The mask itself is always stored little-endian; TocBigEndian applies to
// everything after it, including the rest of the lead-in.
type ToC uint32

const (
	// TocMetaData indicates the segment carries a metadata section.
	TocMetaData ToC = 1 << 1
	// TocNewObjList indicates the segment's object list replaces the previous
	// segment's list instead of extending it.
	TocNewObjList ToC = 1 << 2
	// TocRawData indicates the segment carries raw channel data.
	TocRawData ToC = 1 << 3
	// TocInterleavedData indicates raw channel data is interleaved rather than
	// contiguous per channel.
	TocInterleavedData ToC = 1 << 5
	// TocBigEndian indicates numeric data after the mask is big-endian.
	TocBigEndian ToC = 1 << 6
	// TocDAQmxRawData indicates raw data is laid out in DAQmx scaler buffers.
	TocDAQmxRawData ToC = 1 << 7
)

// HasMetaData returns whether the segment carries a metadata section.
func (t ToC) HasMetaData() bool {
	return t&TocMetaData != 0
}

// HasNewObjList returns whether the object list starts fresh instead of
// extending the previous segment's list.
func (t ToC) HasNewObjList() bool {
	return t&TocNewObjList != 0
}

// HasRawData returns whether the segment carries raw channel data.
func (t ToC) HasRawData() bool {
	return t&TocRawData != 0
}

// IsInterleaved returns whether raw channel data is interleaved.
func (t ToC) IsInterleaved() bool {
	return t&TocInterleavedData != 0
}

// IsBigEndian returns whether numeric data after the mask is big-endian.
func (t ToC) IsBigEndian() bool {
	return t&TocBigEndian != 0
}

// HasDAQmxData returns whether raw data is laid out in DAQmx scaler buffers.
func (t ToC) HasDAQmxData() bool {
	return t&TocDAQmxRawData != 0
}

// Engine returns the byte-order engine for the segment's numeric data.
func (t ToC) Engine() endian.EndianEngine {
	if t.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// String lists the set flags, e.g. "MetaData|NewObjList|RawData|DAQmx".
func (t ToC) String() string {
	if t == 0 {
		return "None"
	}

	var parts []string
	for _, f := range []struct {
		mask ToC
		name string
	}{
		{TocMetaData, "MetaData"},
		{TocNewObjList, "NewObjList"},
		{TocRawData, "RawData"},
		{TocInterleavedData, "Interleaved"},
		{TocBigEndian, "BigEndian"},
		{TocDAQmxRawData, "DAQmx"},
	} {
		if t&f.mask != 0 {
			parts = append(parts, f.name)
		}
	}

	return strings.Join(parts, "|")
}
