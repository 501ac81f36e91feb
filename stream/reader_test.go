package stream

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acqlab/tdms/endian"
	"github.com/acqlab/tdms/errs"
)

func TestReader_ReadPrimitives(t *testing.T) {
	var buf []byte
	buf = binary.LittleEndian.AppendUint16(buf, 0x1234)
	buf = binary.LittleEndian.AppendUint32(buf, 0xDEADBEEF)
	buf = binary.LittleEndian.AppendUint64(buf, 0x0102030405060708)
	buf = append(buf, 0x7F)

	r := NewReader(bytes.NewReader(buf), endian.GetLittleEndianEngine())

	v16, err := r.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v16)

	v32, err := r.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), v32)

	v64, err := r.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), v64)

	v8, err := r.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, uint8(0x7F), v8)
}

func TestReader_BigEndian(t *testing.T) {
	var buf []byte
	buf = binary.BigEndian.AppendUint32(buf, 0xCAFEBABE)
	buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(1.5))

	r := NewReader(bytes.NewReader(buf), endian.GetBigEndianEngine())

	v32, err := r.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xCAFEBABE), v32)

	f64, err := r.ReadFloat64()
	require.NoError(t, err)
	require.Equal(t, 1.5, f64)
}

func TestReader_ReadString(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		var buf []byte
		buf = binary.LittleEndian.AppendUint32(buf, 5)
		buf = append(buf, "hello"...)

		r := NewReader(bytes.NewReader(buf), endian.GetLittleEndianEngine())
		s, err := r.ReadString()
		require.NoError(t, err)
		require.Equal(t, "hello", s)
	})

	t.Run("empty", func(t *testing.T) {
		buf := binary.LittleEndian.AppendUint32(nil, 0)

		r := NewReader(bytes.NewReader(buf), endian.GetLittleEndianEngine())
		s, err := r.ReadString()
		require.NoError(t, err)
		require.Equal(t, "", s)
	})

	t.Run("truncated body", func(t *testing.T) {
		var buf []byte
		buf = binary.LittleEndian.AppendUint32(buf, 10)
		buf = append(buf, "short"...)

		r := NewReader(bytes.NewReader(buf), endian.GetLittleEndianEngine())
		_, err := r.ReadString()
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfData)
	})

	t.Run("corrupt length prefix", func(t *testing.T) {
		buf := binary.LittleEndian.AppendUint32(nil, 0xFFFFFFF0)

		r := NewReader(bytes.NewReader(buf), endian.GetLittleEndianEngine())
		_, err := r.ReadString()
		require.ErrorIs(t, err, errs.ErrInvalidFormat)
	})
}

func TestReader_ShortReads(t *testing.T) {
	t.Run("empty stream", func(t *testing.T) {
		r := NewReader(bytes.NewReader(nil), endian.GetLittleEndianEngine())
		_, err := r.ReadUint32()
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfData)
	})

	t.Run("partial value", func(t *testing.T) {
		r := NewReader(bytes.NewReader([]byte{0x01, 0x02}), endian.GetLittleEndianEngine())
		_, err := r.ReadUint64()
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfData)
	})

	t.Run("partial ReadBytes", func(t *testing.T) {
		r := NewReader(bytes.NewReader([]byte{0x01, 0x02}), endian.GetLittleEndianEngine())
		_, err := r.ReadBytes(4)
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfData)
	})
}

func TestReader_Skip(t *testing.T) {
	t.Run("within bounds", func(t *testing.T) {
		buf := []byte{1, 2, 3, 4, 5, 6}
		r := NewReader(bytes.NewReader(buf), endian.GetLittleEndianEngine())

		require.NoError(t, r.Skip(4))
		v, err := r.ReadUint8()
		require.NoError(t, err)
		require.Equal(t, uint8(5), v)
	})

	t.Run("past end", func(t *testing.T) {
		r := NewReader(bytes.NewReader([]byte{1, 2}), endian.GetLittleEndianEngine())
		require.ErrorIs(t, r.Skip(10), errs.ErrUnexpectedEndOfData)
	})

	t.Run("zero", func(t *testing.T) {
		r := NewReader(bytes.NewReader(nil), endian.GetLittleEndianEngine())
		require.NoError(t, r.Skip(0))
	})
}
