package domain

import "errors"

// Fatal errors: the feed could not be opened at all and no validator ran.
var (
	ErrInvalidArchive      = errors.New("feed archive cannot be read")
	ErrFeedNotFound        = errors.New("feed not found")
	ErrArchiveTooLarge     = errors.New("feed exceeds maximum allowed size")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidOption       = errors.New("invalid validation option")
	ErrStorageUnavailable  = errors.New("object storage is not configured")
	ErrUploadFailed        = errors.New("report upload to storage failed")
)
