package minitar

import (
	"errors"

	"github.com/meigma/minitar/internal/header"
)

// Sentinel errors re-exported from internal/header.
var (
	// ErrNameTooLong is returned when a member name does not fit the 100-byte name field.
	ErrNameTooLong = header.ErrNameTooLong

	// ErrFieldOverflow is returned when a metadata value does not fit its header field.
	ErrFieldOverflow = header.ErrFieldOverflow

	// ErrInvalidHeader is returned when a header block cannot be decoded or
	// fails checksum verification.
	ErrInvalidHeader = header.ErrInvalidHeader
)

// Sentinel errors for archive operations.
var (
	// ErrArchiveNotFound is returned when an archive that must already exist cannot be opened.
	ErrArchiveNotFound = errors.New("minitar: archive not found")

	// ErrSourceFileMissing is returned when a member path cannot be opened for reading.
	ErrSourceFileMissing = errors.New("minitar: source file missing")

	// ErrMetadataUnavailable is returned when a member path cannot be stat'd.
	ErrMetadataUnavailable = errors.New("minitar: metadata unavailable")

	// ErrIdentityLookupFailed is returned when an owner or group id has no name.
	ErrIdentityLookupFailed = errors.New("minitar: identity lookup failed")

	// ErrTruncationFailed is returned when the footer cannot be removed before appending.
	ErrTruncationFailed = errors.New("minitar: truncation failed")

	// ErrFileNotInArchive is returned by Update when a requested name is not a member.
	ErrFileNotInArchive = errors.New("minitar: file not in archive")

	// ErrTruncatedArchive is returned when an archive ends inside a header or member content.
	ErrTruncatedArchive = errors.New("minitar: truncated archive")

	// ErrSourceChanged is returned when a source file yields fewer bytes than its recorded size.
	ErrSourceChanged = errors.New("minitar: source file changed during write")

	// ErrUnsafePath is returned when a member name would be extracted outside the destination.
	ErrUnsafePath = errors.New("minitar: unsafe member path")
)
