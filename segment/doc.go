// Package segment parses the on-disk structure of TDMS segments: the
// lead-in, the table-of-contents mask, and the metadata section with its
// object list, raw-data indexes and properties.
//
// # Segment Structure
//
// A TDMS file is a sequence of segments, each laid out as:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Lead-in (28 bytes, fixed)                               │
//	│  - "TDSm" tag (4 bytes)                                 │
//	│  - ToC mask (4 bytes, always little-endian)             │
//	│  - Version (4 bytes)                                    │
//	│  - NextSegmentOffset (8 bytes)                          │
//	│  - RawDataOffset (8 bytes)                              │
//	├─────────────────────────────────────────────────────────┤
//	│ Metadata (RawDataOffset bytes)                          │
//	│  - Object count, then per object:                       │
//	│    path, raw-data index, property list                  │
//	├─────────────────────────────────────────────────────────┤
//	│ Raw data (NextSegmentOffset - RawDataOffset bytes)      │
//	│  - One or more identical chunks                         │
//	└─────────────────────────────────────────────────────────┘
//
// Both offsets count from the end of the lead-in. A NextSegmentOffset of
// 0xFFFFFFFFFFFFFFFF marks a segment cut short by an interrupted writer.
//
// # Raw-Data Indexes
//
// Each object's raw-data index starts with a uint32 that selects its form:
//
//	Value       | Meaning
//	------------|---------------------------------------------------
//	0xFFFFFFFF  | No raw data for this object in this segment
//	0x00000000  | Layout identical to an earlier segment's
//	0x00001269  | DAQmx format-changing scaler metadata
//	0x0000126A  | DAQmx digital-line scaler metadata
//	other       | Standard index: data type, dimension, value count
//
// DAQmx indexes are delegated to the daqmx package; standard raw data is
// indexed for accounting but not decoded.
//
// # Object List Continuity
//
// Without TocNewObjList a segment's object list extends the previous
// segment's list, so ReadMetadata takes the previous segment's Metadata and
// merges. Segments without a metadata section at all reuse the previous
// list unchanged, which is how streaming writers append data cheaply.
package segment
