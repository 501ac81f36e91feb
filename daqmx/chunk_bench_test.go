package daqmx

import (
	"bytes"
	"testing"

	"github.com/acqlab/tdms/endian"
	"github.com/acqlab/tdms/format"
	"github.com/acqlab/tdms/stream"
)

func benchChunk(rows int, widths []uint32, scalers []Scaler) ([]ChunkObject, []byte) {
	meta := &Metadata{
		ChunkSize:     uint64(rows),
		RawDataWidths: widths,
		Scalers:       scalers,
	}

	var total int
	for _, w := range widths {
		total += int(w) * rows
	}
	raw := make([]byte, total)
	for i := range raw {
		raw[i] = byte(i * 7)
	}

	return []ChunkObject{{Path: "/'bench'/'c'", DataType: format.DAQmxRawData, Meta: meta}}, raw
}

func BenchmarkDecodeChunk(b *testing.B) {
	objs, raw := benchChunk(10000, []uint32{8}, []Scaler{
		FormatChangingScaler{dataType: format.Uint16, rawByteOffset: 0, scaleID: 0},
		FormatChangingScaler{dataType: format.Uint16, rawByteOffset: 2, scaleID: 1},
		FormatChangingScaler{dataType: format.Uint16, rawByteOffset: 4, scaleID: 2},
		FormatChangingScaler{dataType: format.Uint16, rawByteOffset: 6, scaleID: 3},
	})

	b.SetBytes(int64(len(raw)))
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		r := stream.NewReader(bytes.NewReader(raw), endian.GetLittleEndianEngine())
		if _, err := DecodeChunk(r, objs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeChunkMultiBuffer(b *testing.B) {
	objs, raw := benchChunk(10000, []uint32{4, 4, 4, 4}, []Scaler{
		FormatChangingScaler{dataType: format.Uint32, rawBufferIndex: 0, scaleID: 0},
		FormatChangingScaler{dataType: format.Uint32, rawBufferIndex: 1, scaleID: 1},
		FormatChangingScaler{dataType: format.Uint32, rawBufferIndex: 2, scaleID: 2},
		FormatChangingScaler{dataType: format.Uint32, rawBufferIndex: 3, scaleID: 3},
	})

	b.SetBytes(int64(len(raw)))
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		r := stream.NewReader(bytes.NewReader(raw), endian.GetLittleEndianEngine())
		if _, err := DecodeChunk(r, objs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeChunkDigital(b *testing.B) {
	scalers := make([]Scaler, 8)
	for i := range scalers {
		scalers[i] = DigitalLineScaler{
			dataType:     format.Uint8,
			rawBitOffset: uint32(i),
			scaleID:      uint32(i),
		}
	}
	objs, raw := benchChunk(10000, []uint32{1}, scalers)

	b.SetBytes(int64(len(raw)))
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		r := stream.NewReader(bytes.NewReader(raw), endian.GetLittleEndianEngine())
		if _, err := DecodeChunk(r, objs); err != nil {
			b.Fatal(err)
		}
	}
}
