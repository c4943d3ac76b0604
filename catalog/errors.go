package catalog

import "errors"

var (
	// ErrAdapterRequired is returned when an embedding adapter is not provided.
	ErrAdapterRequired = errors.New("embedding adapter required")

	// ErrReadExport is returned when an export document cannot be read.
	ErrReadExport = errors.New("cannot read export document")

	// ErrWriteExport is returned when an export document cannot be written.
	ErrWriteExport = errors.New("cannot write export document")

	// ErrInvalidExport is returned when a JSON file does not hold an export
	// document with a data array.
	ErrInvalidExport = errors.New("invalid export document")

	// ErrInsufficientMemory is returned when available memory headroom is too
	// small to load a bulk file safely.
	ErrInsufficientMemory = errors.New("insufficient memory headroom")

	// ErrInvalidSplitCount is returned when the requested part count is not positive.
	ErrInvalidSplitCount = errors.New("split count must be positive")
)
