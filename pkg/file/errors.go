package file

import "errors"

var (
	ErrFileTooLarge       = errors.New("file too large")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrEmptyFile          = errors.New("file is empty")
	ErrInvalidPath        = errors.New("invalid path")

	ErrFailedToWriteFile       = errors.New("failed to write file")
	ErrFailedToCreateDirectory = errors.New("failed to create directory")
	ErrFailedToGetAbsolutePath = errors.New("failed to get absolute path")

	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")

	ErrInvalidConfig      = errors.New("invalid storage configuration")
	ErrUnknownStore       = errors.New("unknown attachment store")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
)

// TypeError reports an attachment whose extension is not on the allow-list.
type TypeError struct {
	Ext string
}

func (e *TypeError) Error() string {
	return "File type ." + e.Ext + " not allowed"
}

func (e *TypeError) Unwrap() error { return ErrFileTypeNotAllowed }
