// Package errs defines the sentinel errors shared across the tsmfile packages.
//
// Callers can match these with errors.Is even when they are wrapped with
// additional context via fmt.Errorf("%w: ...").
package errs

import "errors"

var (
	// ErrWriteFailed wraps any I/O or encoding failure during a file write.
	// A file that reported ErrWriteFailed is not a valid TSM artifact and
	// must be discarded by the caller; the writer performs no cleanup.
	ErrWriteFailed = errors.New("write TSM file failed")

	// ErrUnknownValueType is returned when a block carries format.TypeUnknown.
	ErrUnknownValueType = errors.New("unknown value type")

	// ErrValueTypeMismatch is returned when a value is appended to a block
	// of a different value type.
	ErrValueTypeMismatch = errors.New("value type mismatch")

	// ErrEmptyBlock is returned when a field is written with zero data points.
	ErrEmptyBlock = errors.New("data block is empty")

	// ErrInvalidMagicNumber is returned when a file does not start with the
	// TSM magic constant.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidVersion is returned when a file carries an unsupported
	// format version.
	ErrInvalidVersion = errors.New("invalid format version")

	// ErrInvalidHeaderSize is returned when header bytes are truncated.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidFooterSize is returned when footer bytes are truncated.
	ErrInvalidFooterSize = errors.New("invalid footer size")

	// ErrInvalidIndexMeta is returned when index section bytes are malformed.
	ErrInvalidIndexMeta = errors.New("invalid index meta")

	// ErrInvalidBlockMeta is returned when block meta bytes are malformed.
	ErrInvalidBlockMeta = errors.New("invalid block meta")

	// ErrInvalidFilterSize is returned when membership filter bytes do not
	// match the fixed filter length.
	ErrInvalidFilterSize = errors.New("invalid membership filter size")

	// ErrChecksumMismatch is returned when a chunk payload fails CRC32
	// verification on read.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrFieldNotFound is returned when a field identifier has no index entry.
	ErrFieldNotFound = errors.New("field not found")

	// ErrInvalidCompression is returned for an unsupported compression type.
	ErrInvalidCompression = errors.New("invalid compression type")

	// ErrInvalidMaxBlockValues is returned when the chunk size cap option is
	// not positive.
	ErrInvalidMaxBlockValues = errors.New("invalid max block values")

	// ErrTimestampCountMismatch is returned when timestamps and values of a
	// block diverge in length.
	ErrTimestampCountMismatch = errors.New("timestamp and value count mismatch")

	// ErrFileAlreadyOpen is returned by the file manager when a path is
	// already registered.
	ErrFileAlreadyOpen = errors.New("file already open")

	// ErrFileNotOpen is returned by the file manager when a path has no
	// registered cursor.
	ErrFileNotOpen = errors.New("file not open")
)
