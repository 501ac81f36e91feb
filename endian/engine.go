// Package endian provides byte order utilities for binary decoding.
//
// This package combines Go's binary.ByteOrder and binary.AppendByteOrder
// interfaces into a unified EndianEngine interface. TDMS segments declare
// their byte order per segment (little-endian by default, big-endian when the
// kTocBigEndian flag is set), so every multi-byte read in this module goes
// through an engine chosen from the segment's table of contents rather than
// assuming a fixed order.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	value := engine.Uint32(buf[0:4])
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library, making it fully compatible with existing Go code while
// providing access to both read and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
