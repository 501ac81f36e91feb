// Package tdms reads TDMS files produced by NI DAQmx hardware, decoding the
// interleaved scaler buffers that standard TDMS readers skip over.
//
// TDMS is the segment-based log format written by LabVIEW and the DAQmx
// driver stack. Each segment carries a metadata section describing groups,
// channels and their raw-data layout, followed by chunks of sample data.
// DAQmx devices write their samples interleaved row by row across shared
// raw buffers, with per-channel scaler descriptors locating each channel's
// bytes inside a row.
//
// # Core Features
//
//   - Full segment walk: object list continuity, property accumulation,
//     incremental metadata, interrupted-writer recovery
//   - DAQmx scaler decoding: format-changing and digital-line scalers,
//     multi-buffer segments, both byte orders
//   - NI scaling chains: linear, polynomial and table scales reconstructed
//     from channel properties
//   - Transparent archive decompression: gzip, zstd, lz4 and s2/snappy
//   - Hash-indexed channel directory with collision-safe path lookups
//
// # Basic Usage
//
// Opening a file and reading a channel:
//
//	f, err := tdms.OpenFile("capture.tdms")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	ch, err := f.Channel("Measured Data", "Voltage 0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Scaled values, applying the channel's NI scaling chain
//	values, err := ch.Read()
//
//	// Or the raw scaler columns, keyed by scale id
//	raw, err := ch.ReadRaw()
//
// Walking the file structure:
//
//	for _, group := range f.Groups() {
//	    for _, ch := range group.Channels() {
//	        fmt.Printf("%s: %d values\n", ch.Path(), ch.NumberValues())
//	    }
//	}
//
// # Package Structure
//
// This package provides the file-level API. The layers underneath are
// importable on their own for finer control:
//
//   - segment: lead-ins, metadata sections, object lists, properties
//   - daqmx: scaler metadata and chunk decoding
//   - scale: NI scaling chains
//   - compress: archive format sniffing and decompression
//   - format: TDMS data type codes
//   - stream: endian-aware binary reading
package tdms
