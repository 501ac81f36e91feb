// Package compress transparently unwraps compressed TDMS archives.
//
// TDMS files are often archived as .tdms.gz or similar before they reach an
// analysis pipeline. NewReader sniffs the magic bytes of a stream and wraps
// it with the matching stream decompressor:
//
//	Format | Magic                         | Decoder
//	-------|-------------------------------|---------------------------
//	gzip   | 1F 8B                         | klauspost/compress/gzip
//	zstd   | 28 B5 2F FD                   | gozstd (cgo) or klauspost
//	lz4    | 04 22 4D 18                   | pierrec/lz4 frame reader
//	s2     | FF 06 00 00 "S2sTwO"/"sNaPpY" | klauspost/compress/s2
//
// Anything else passes through unchanged, so callers can feed every archive
// through NewReader unconditionally.
//
// Zstandard uses the cgo-backed gozstd decoder when cgo is available and
// falls back to the pure-Go klauspost decoder otherwise; both read the same
// frames.
package compress
