// Package daqmx decodes DAQmx raw data: the TDMS data layout produced by
// NI-DAQmx hardware, where several channels' samples are byte-interleaved
// across one raw buffer per acquisition device.
//
// A channel's raw data index carries scaler descriptors instead of a plain
// data type. Each scaler locates one value per sample row inside a raw
// buffer, either as a contiguous byte range (format changing scalers) or as
// a single bit (digital line scalers). ReadMetadata parses those
// descriptors; DecodeChunk splits the interleaved buffers back into typed
// per-scaler columns.
//
// # Decoding a chunk
//
//	meta, err := daqmx.ReadMetadata(r, header)
//	// ... gather the segment's objects ...
//	data, err := daqmx.DecodeChunk(r, objects)
//	col := data["/'group'/'channel'"][0]
//	samples, _ := col.Uint16s()
//
// The package is deliberately independent of the file layer: it consumes a
// positioned stream.Reader and segment state, and returns owned columns.
// The segment package feeds it while parsing raw data indexes, and the root
// package drives it once per chunk when channel data is read.
package daqmx
