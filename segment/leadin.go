package segment

import (
	"bytes"
	"fmt"
	"io"

	"github.com/acqlab/tdms/endian"
	"github.com/acqlab/tdms/errs"
)

const (
	// LeadInSize is the byte length of a segment lead-in.
	LeadInSize = 28

	// NoNextSegmentOffset in a lead-in marks a segment whose writer was
	// interrupted before it could backfill the offsets. The data extent must
	// then be derived from the file size instead.
	NoNextSegmentOffset uint64 = 0xFFFFFFFFFFFFFFFF

	// TDMSVersion1 and TDMSVersion2 are the known values of the lead-in
	// version field. The version is recorded but not validated; files in the
	// wild carry both and parse identically at this layer.
	TDMSVersion1 uint32 = 4712
	TDMSVersion2 uint32 = 4713
)

var leadInTag = []byte{'T', 'D', 'S', 'm'}

// LeadIn is the fixed 28-byte header that starts every segment.
type LeadIn struct {
	// ToC announces the segment layout. Always little-endian on disk.
	ToC ToC // byte offset 4-7
	// Version is the format version, 4712 or 4713.
	Version uint32 // byte offset 8-11
	// NextSegmentOffset is the byte distance from the end of the lead-in to
	// the start of the next segment, or NoNextSegmentOffset for a segment
	// truncated by an interrupted writer.
	NextSegmentOffset uint64 // byte offset 12-19
	// RawDataOffset is the byte distance from the end of the lead-in to the
	// start of raw data, i.e. the metadata section length.
	RawDataOffset uint64 // byte offset 20-27
}

// ReadLeadIn reads and parses one lead-in from r.
//
// A clean end of input before any byte is read returns io.EOF, letting
// callers detect the end of a well-formed file; any other short read returns
// an error wrapping errs.ErrUnexpectedEndOfData.
func ReadLeadIn(r io.Reader) (LeadIn, error) {
	var buf [LeadInSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF {
			return LeadIn{}, io.EOF
		}

		return LeadIn{}, fmt.Errorf("%w: lead-in needs %d bytes", errs.ErrUnexpectedEndOfData, LeadInSize)
	}

	return ParseLeadIn(buf[:])
}

// ParseLeadIn parses a lead-in from a byte slice of at least LeadInSize
// bytes.
//
// The tag and ToC mask are byte-order independent; the remaining fields are
// decoded with the byte order the ToC declares.
//
// Returns:
//   - LeadIn: Parsed lead-in
//   - error: ErrInvalidLeadInTag when the tag is not "TDSm", ErrInvalidFormat
//     when the offsets are inconsistent, ErrUnexpectedEndOfData when data is
//     too short
func ParseLeadIn(data []byte) (LeadIn, error) {
	if len(data) < LeadInSize {
		return LeadIn{}, fmt.Errorf("%w: lead-in needs %d bytes, have %d", errs.ErrUnexpectedEndOfData, LeadInSize, len(data))
	}

	if !bytes.Equal(data[0:4], leadInTag) {
		return LeadIn{}, fmt.Errorf("%w: got %q", errs.ErrInvalidLeadInTag, data[0:4])
	}

	lead := LeadIn{
		ToC: ToC(endian.GetLittleEndianEngine().Uint32(data[4:8])),
	}

	engine := lead.ToC.Engine()
	lead.Version = engine.Uint32(data[8:12])
	lead.NextSegmentOffset = engine.Uint64(data[12:20])
	lead.RawDataOffset = engine.Uint64(data[20:28])

	if !lead.IsIncomplete() && lead.NextSegmentOffset < lead.RawDataOffset {
		return LeadIn{}, fmt.Errorf("%w: next segment offset %d before raw data offset %d",
			errs.ErrInvalidFormat, lead.NextSegmentOffset, lead.RawDataOffset)
	}

	return lead, nil
}

// IsIncomplete returns whether the writer was interrupted before finishing
// this segment.
func (l LeadIn) IsIncomplete() bool {
	return l.NextSegmentOffset == NoNextSegmentOffset
}

// MetadataBytes returns the byte length of the metadata section.
func (l LeadIn) MetadataBytes() uint64 {
	return l.RawDataOffset
}

// DataBytes returns the byte length of the raw data region. Only meaningful
// for complete segments; for incomplete ones the extent must come from the
// file size.
func (l LeadIn) DataBytes() uint64 {
	if l.IsIncomplete() {
		return 0
	}

	return l.NextSegmentOffset - l.RawDataOffset
}
