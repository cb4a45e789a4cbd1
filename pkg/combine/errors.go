package combine

import "errors"

// Error kinds. Returned errors wrap one of these together with the
// offending path; test with errors.Is.
var (
	// ErrInvalidDirectory: the scan root is missing or not a directory.
	ErrInvalidDirectory = errors.New("invalid directory")
	// ErrPathNotFound: an explicitly listed file does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrFileRead: a file could not be read as text.
	ErrFileRead = errors.New("file read failed")
	// ErrOutputWrite: the output document could not be written.
	ErrOutputWrite = errors.New("output write failed")
	// ErrNoInput: neither a directory nor any file was requested.
	ErrNoInput = errors.New("no input: a directory or at least one file is required")
)

// Code is a short error class used as a structured log field.
type Code string

const (
	CodeUnknown          Code = "unknown"
	CodeInvalidDirectory Code = "invalid_directory"
	CodePathNotFound     Code = "path_not_found"
	CodeFileRead         Code = "file_read"
	CodeOutputWrite      Code = "output_write"
	CodeUsage            Code = "usage"
)

// Classify maps an error to its Code.
func Classify(err error) Code {
	switch {
	case err == nil:
		return CodeUnknown
	case errors.Is(err, ErrInvalidDirectory):
		return CodeInvalidDirectory
	case errors.Is(err, ErrPathNotFound):
		return CodePathNotFound
	case errors.Is(err, ErrFileRead):
		return CodeFileRead
	case errors.Is(err, ErrOutputWrite):
		return CodeOutputWrite
	case errors.Is(err, ErrNoInput):
		return CodeUsage
	default:
		return CodeUnknown
	}
}
