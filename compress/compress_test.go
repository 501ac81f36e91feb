package compress

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

func testPayload() []byte {
	data := make([]byte, 32*1024)
	for i := range data {
		data[i] = byte(i % 251)
	}

	return data
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func zstded(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func lz4ed(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func s2ed(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func snappied(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := s2.NewWriter(&buf, s2.WriterSnappyCompat())
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	payload := testPayload()

	cases := []struct {
		name   string
		prefix []byte
		want   Format
	}{
		{"gzip", gzipped(t, payload), FormatGzip},
		{"zstd", zstded(t, payload), FormatZstd},
		{"lz4", lz4ed(t, payload), FormatLZ4},
		{"s2", s2ed(t, payload), FormatS2},
		{"snappy framing", snappied(t, payload), FormatS2},
		{"plain tdms", []byte("TDSm\x0E\x00\x00\x00"), FormatNone},
		{"empty", nil, FormatNone},
		{"short gzip-like", []byte{0x1F}, FormatNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Detect(tc.prefix))
		})
	}
}

func TestNewReader_RoundTrips(t *testing.T) {
	payload := testPayload()

	cases := []struct {
		name     string
		archived []byte
		want     Format
	}{
		{"gzip", gzipped(t, payload), FormatGzip},
		{"zstd", zstded(t, payload), FormatZstd},
		{"lz4", lz4ed(t, payload), FormatLZ4},
		{"s2", s2ed(t, payload), FormatS2},
		{"snappy framing", snappied(t, payload), FormatS2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, format, err := NewReader(bytes.NewReader(tc.archived))
			require.NoError(t, err)
			require.Equal(t, tc.want, format)

			out, err := io.ReadAll(r)
			require.NoError(t, err)
			require.Equal(t, payload, out)
		})
	}
}

func TestNewReader_Passthrough(t *testing.T) {
	t.Run("keeps the sniffed prefix", func(t *testing.T) {
		data := []byte("TDSm plus whatever follows")

		r, format, err := NewReader(bytes.NewReader(data))
		require.NoError(t, err)
		require.Equal(t, FormatNone, format)

		out, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, data, out)
	})

	t.Run("input shorter than any magic", func(t *testing.T) {
		data := []byte{0x28, 0xB5} // zstd magic cut short

		r, format, err := NewReader(bytes.NewReader(data))
		require.NoError(t, err)
		require.Equal(t, FormatNone, format)

		out, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, data, out)
	})

	t.Run("empty input", func(t *testing.T) {
		r, format, err := NewReader(bytes.NewReader(nil))
		require.NoError(t, err)
		require.Equal(t, FormatNone, format)

		out, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Empty(t, out)
	})
}

func TestNewReader_CorruptGzip(t *testing.T) {
	data := append([]byte{0x1F, 0x8B}, []byte("not a real gzip stream at all")...)

	_, _, err := NewReader(bytes.NewReader(data))
	require.Error(t, err)
}

func TestFormat_String(t *testing.T) {
	require.Equal(t, "none", FormatNone.String())
	require.Equal(t, "gzip", FormatGzip.String())
	require.Equal(t, "zstd", FormatZstd.String())
	require.Equal(t, "lz4", FormatLZ4.String())
	require.Equal(t, "s2", FormatS2.String())
}
