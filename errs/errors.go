// Package errs defines the sentinel errors shared across the tdms module.
//
// All errors are plain sentinel values so callers can classify failures with
// errors.Is. Packages wrap these sentinels with fmt.Errorf("...: %w", err) to
// add positional context (segment offset, channel path, scaler index) without
// losing the category.
package errs

import "errors"

// Structural errors reported while walking the segment layer.
var (
	// ErrInvalidLeadInTag is returned when a segment does not start with the
	// "TDSm" tag, meaning the stream is not positioned at a segment boundary
	// or the file is not a TDMS file at all.
	ErrInvalidLeadInTag = errors.New("invalid segment lead-in tag")

	// ErrInvalidFormat is returned when a structure violates the format
	// rules: an unknown raw data index discriminator, a DAQmx dimension
	// other than 1, or a segment layout that contradicts itself.
	ErrInvalidFormat = errors.New("invalid data format")

	// ErrUnexpectedEndOfData is returned when the stream ends in the middle
	// of a structure whose declared size promised more bytes.
	ErrUnexpectedEndOfData = errors.New("unexpected end of data")

	// ErrUnsupportedDataType is returned for property or channel data types
	// the reader recognizes but cannot decode.
	ErrUnsupportedDataType = errors.New("unsupported data type")
)

// DAQmx decoding errors.
var (
	// ErrUnrecognizedType is returned when a DAQmx scaler carries a data
	// type code outside the DAQmx raw type table.
	ErrUnrecognizedType = errors.New("unrecognized DAQmx data type code")

	// ErrMixedDataTypes is returned when a segment chunk mixes DAQmx raw
	// data objects with objects of any other data type.
	ErrMixedDataTypes = errors.New("mixed data types in raw data chunk")

	// ErrInvalidOffset is returned for an impossible declared offset: a
	// scaler's byte range outside its raw buffer stride, a buffer index
	// outside the buffer set, or a segment offset that overflows or runs
	// backwards.
	ErrInvalidOffset = errors.New("invalid declared offset")
)

// File and channel lookup errors.
var (
	ErrGroupNotFound   = errors.New("group not found")
	ErrChannelNotFound = errors.New("channel not found")

	// ErrNonDAQmxData is returned when raw data is requested from a channel
	// whose segments carry standard (non-DAQmx) data; this reader decodes
	// DAQmx raw data only.
	ErrNonDAQmxData = errors.New("channel has no DAQmx raw data")
)

// Scaling errors.
var (
	// ErrUnknownScaleType is returned when a channel declares a scale type
	// this package does not implement.
	ErrUnknownScaleType = errors.New("unknown scale type")

	// ErrScalerDataMissing is returned when a scaling chain needs a raw
	// scaler column that the channel's DAQmx data does not contain.
	ErrScalerDataMissing = errors.New("scaler data missing")

	// ErrInvalidScale is returned when scale properties are present but
	// inconsistent, such as a table scale with mismatched value counts.
	ErrInvalidScale = errors.New("invalid scale definition")
)

// Archive errors.
var (
	// ErrArchiveTooLarge is returned when a compressed archive would expand
	// past the configured in-memory size limit.
	ErrArchiveTooLarge = errors.New("archive exceeds decompressed size limit")
)
