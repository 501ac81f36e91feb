package tdms

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/acqlab/tdms/compress"
	"github.com/acqlab/tdms/daqmx"
	"github.com/acqlab/tdms/errs"
	"github.com/acqlab/tdms/format"
	"github.com/acqlab/tdms/internal/collision"
	"github.com/acqlab/tdms/internal/options"
	"github.com/acqlab/tdms/segment"
	"github.com/acqlab/tdms/stream"
)

// File is an open TDMS file with its metadata fully indexed.
//
// Opening a file walks every segment, merging object lists and properties
// into a single directory of groups and channels; raw data stays on disk
// until a channel read asks for it, and is then decoded once and cached for
// the life of the File.
//
// A File is safe for concurrent metadata access. Channel reads are not
// synchronized; callers reading data from multiple goroutines must do the
// first read, which populates the cache, before fanning out.
type File struct {
	r      io.ReadSeeker
	closer io.Closer
	opts   *readOptions

	version  uint32
	objects  []*fileObject
	paths    *collision.Index
	segments []segmentRecord

	dataLoaded bool
}

// fileObject is one object's state merged across every segment that
// mentions it: the root object, a group, or a channel.
type fileObject struct {
	path    string
	group   string
	channel string

	props segment.Properties

	dataType    format.DataType
	daqmx       *daqmx.Metadata
	totalValues uint64
	hasRawData  bool

	// columns caches the decoded samples per scale id once loadData ran.
	columns map[uint32]daqmx.Column
}

func (fo *fileObject) isChannel() bool {
	return fo.channel != ""
}

// segmentRecord locates one DAQmx segment's raw data for the deferred data
// pass. Segments without decodable data are merged into the directory during
// the scan and never recorded here.
type segmentRecord struct {
	dataPos int64
	toc     segment.ToC
	meta    *segment.Metadata
	chunks  uint64
}

// Open parses the TDMS stream r and returns its file directory.
//
// The reader must serve plain TDMS bytes; OpenFile handles compressed
// archives. Open keeps r for deferred data reads, so it must stay valid for
// the life of the returned File. Closing the source is the caller's job;
// File.Close is a no-op for files opened this way.
//
// Parameters:
//   - r: Seekable TDMS byte stream
//   - opts: Optional configuration (WithStrictChunks, ...)
//
// Returns:
//   - *File: Parsed file with all segment metadata merged
//   - error: ErrInvalidLeadInTag if r is not a TDMS stream, or any
//     structural error from the segment walk
func Open(r io.ReadSeeker, opts ...Option) (*File, error) {
	o := defaultReadOptions()
	if err := options.Apply(o, opts...); err != nil {
		return nil, err
	}

	f := &File{
		r:     r,
		opts:  o,
		paths: collision.NewIndex(),
	}
	if err := f.scan(); err != nil {
		return nil, err
	}

	return f, nil
}

// OpenFile opens the named TDMS file, transparently decompressing gzip,
// zstd, lz4 and s2/snappy archives.
//
// A compressed archive is expanded into memory first, because segment
// offsets need random access; WithMaxArchiveSize bounds that expansion. A
// plain TDMS file is read in place with no buffering of raw data.
//
// The returned File owns the file handle; release it with Close.
func OpenFile(path string, opts ...Option) (*File, error) {
	o := defaultReadOptions()
	if err := options.Apply(o, opts...); err != nil {
		return nil, err
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fmtc, err := sniffFormat(fh)
	if err != nil {
		fh.Close()

		return nil, err
	}

	if fmtc == compress.FormatNone {
		f, err := Open(fh, opts...)
		if err != nil {
			fh.Close()

			return nil, err
		}
		f.closer = fh

		return f, nil
	}

	defer fh.Close()

	dec, _, err := compress.NewReader(fh)
	if err != nil {
		return nil, err
	}

	raw, err := readAllLimited(dec, o.maxArchiveSize)
	if err != nil {
		return nil, err
	}

	return Open(bytes.NewReader(raw), opts...)
}

// ReadFile opens the named TDMS file, decodes all channel data eagerly and
// releases the file handle before returning. The result serves every read
// from memory.
func ReadFile(path string, opts ...Option) (*File, error) {
	f, err := OpenFile(path, opts...)
	if err != nil {
		return nil, err
	}

	if err := f.loadData(); err != nil {
		f.Close()

		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	return f, nil
}

// Close releases the underlying file handle when the File owns one. The
// directory and any cached channel data remain usable.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	c := f.closer
	f.closer = nil
	f.r = nil

	return c.Close()
}

// sniffFormat reads just enough of fh to classify its compression, then
// rewinds to the start.
func sniffFormat(fh io.ReadSeeker) (compress.Format, error) {
	var magic [compress.MaxMagicLen]byte
	n, err := io.ReadFull(fh, magic[:])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return compress.FormatNone, err
	}
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		return compress.FormatNone, err
	}

	return compress.Detect(magic[:n]), nil
}

// readAllLimited reads r to the end, failing once the total passes limit.
func readAllLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("decompressing archive: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: decompressed size exceeds %d bytes", errs.ErrArchiveTooLarge, limit)
	}

	return data, nil
}

// scan walks every segment once, building the object directory and the list
// of raw-data regions to decode later.
func (f *File) scan() error {
	fileSize, err := f.r.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("finding file size: %w", err)
	}

	var (
		pos      int64
		prevMeta *segment.Metadata
	)
	for pos < fileSize {
		if _, err := f.r.Seek(pos, io.SeekStart); err != nil {
			return fmt.Errorf("seeking segment at offset %d: %w", pos, err)
		}

		lead, err := segment.ReadLeadIn(f.r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("segment at offset %d: %w", pos, err)
		}
		f.version = lead.Version

		if lead.RawDataOffset > math.MaxInt64 {
			return fmt.Errorf("%w: segment at offset %d declares raw data offset %d", errs.ErrInvalidOffset, pos, lead.RawDataOffset)
		}

		metaReader := stream.NewReader(io.LimitReader(f.r, int64(lead.RawDataOffset)), lead.ToC.Engine())
		meta, err := segment.ReadMetadata(metaReader, lead.ToC, prevMeta)
		if err != nil {
			return fmt.Errorf("segment at offset %d: %w", pos, err)
		}
		prevMeta = meta

		dataPos := pos + segment.LeadInSize + int64(lead.RawDataOffset)

		var avail uint64
		if fileSize > dataPos {
			avail = uint64(fileSize - dataPos)
		}

		var dataBytes uint64
		switch {
		case lead.IsIncomplete():
			// An interrupted writer never patched the lead-in; whatever
			// lies between the metadata and the end of the file is data.
			dataBytes = avail
		default:
			// A lead-in can also declare more data than the file holds,
			// when the writer died after patching it. Clamp to what is
			// actually there.
			dataBytes = min(lead.DataBytes(), avail)
		}

		var chunks uint64
		if lead.ToC.HasRawData() && dataBytes > 0 {
			var remainder uint64
			chunks, remainder = meta.NumChunks(dataBytes)
			if remainder != 0 && f.opts.strictChunks {
				return fmt.Errorf("%w: segment at offset %d ends %d bytes into a chunk", errs.ErrUnexpectedEndOfData, pos, remainder)
			}
		}

		if err := f.mergeSegment(meta, chunks); err != nil {
			return fmt.Errorf("segment at offset %d: %w", pos, err)
		}

		if chunks > 0 && meta.HasDAQmxData() {
			f.segments = append(f.segments, segmentRecord{
				dataPos: dataPos,
				toc:     lead.ToC,
				meta:    meta,
				chunks:  chunks,
			})
		}

		if lead.IsIncomplete() {
			break
		}
		if lead.NextSegmentOffset > math.MaxInt64 {
			return fmt.Errorf("%w: segment at offset %d declares next segment offset %d", errs.ErrInvalidOffset, pos, lead.NextSegmentOffset)
		}
		next := pos + segment.LeadInSize + int64(lead.NextSegmentOffset)
		if next <= pos {
			return fmt.Errorf("%w: segment at offset %d does not advance", errs.ErrInvalidOffset, pos)
		}
		pos = next
	}

	return nil
}

// mergeSegment folds one segment's object list into the file directory:
// properties accumulate with later segments winning, raw-data layout follows
// the most recent segment, and value counts grow by this segment's chunks.
func (f *File) mergeSegment(meta *segment.Metadata, chunks uint64) error {
	for _, obj := range meta.Objects {
		fo, err := f.object(obj.Path)
		if err != nil {
			return err
		}

		for _, p := range obj.Properties {
			fo.props.Upsert(p)
		}

		if !obj.HasRawData() {
			continue
		}
		fo.hasRawData = true
		fo.dataType = obj.DataType
		if obj.IsDAQmx() {
			fo.daqmx = obj.DAQmx
		}
		fo.totalValues += chunks * obj.NumberValues
	}

	return nil
}

// object returns the directory entry for path, creating it on first sight.
// Creation order is file order, which the accessors preserve.
func (f *File) object(path string) (*fileObject, error) {
	if slot, ok := f.paths.Lookup(path); ok {
		return f.objects[slot], nil
	}

	parts, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	fo := &fileObject{path: path}
	switch len(parts) {
	case 1:
		fo.group = parts[0]
	case 2:
		fo.group, fo.channel = parts[0], parts[1]
	}

	f.paths.Insert(path, len(f.objects))
	f.objects = append(f.objects, fo)

	return fo, nil
}

// lookup returns the directory entry for path if it exists.
func (f *File) lookup(path string) (*fileObject, bool) {
	slot, ok := f.paths.Lookup(path)
	if !ok {
		return nil, false
	}

	return f.objects[slot], true
}
