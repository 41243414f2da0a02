package apperrors

import "fmt"

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewFileNotFoundError creates a specific error for a file index missing from a torrent progress snapshot.
func NewFileNotFoundError(fileIndex int) *ErrNotFound {
	return NewNotFoundError("torrent file", fileIndex)
}

// ErrInvalidRange is returned when a piece range query points outside the presence bitmap.
type ErrInvalidRange struct {
	Start  int
	End    int
	Length int
}

// Error implements the error interface.
func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("piece range [%d, %d] is outside bitmap of %d pieces", e.Start, e.End, e.Length)
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidRange) Is(target error) bool {
	_, ok := target.(*ErrInvalidRange)
	return ok
}

// NewInvalidRangeError creates a new ErrInvalidRange.
func NewInvalidRangeError(start, end, length int) *ErrInvalidRange {
	return &ErrInvalidRange{Start: start, End: end, Length: length}
}

// ErrSubtitleLoad is returned when a subtitle file could not be read, parsed or language-detected.
type ErrSubtitleLoad struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ErrSubtitleLoad) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("can't load subtitles file %s", e.Path)
	}
	return fmt.Sprintf("can't load subtitles file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ErrSubtitleLoad) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrSubtitleLoad) Is(target error) bool {
	_, ok := target.(*ErrSubtitleLoad)
	return ok
}

// NewSubtitleLoadError creates a new ErrSubtitleLoad.
func NewSubtitleLoadError(path string, err error) *ErrSubtitleLoad {
	return &ErrSubtitleLoad{Path: path, Err: err}
}

// ErrIndexOutOfRange is returned when a track selection index does not exist.
type ErrIndexOutOfRange struct {
	Index  int
	Length int
}

// Error implements the error interface.
func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("track index %d out of range (%d tracks)", e.Index, e.Length)
}

// Is allows for error checking with errors.Is().
func (e *ErrIndexOutOfRange) Is(target error) bool {
	_, ok := target.(*ErrIndexOutOfRange)
	return ok
}

// NewIndexOutOfRangeError creates a new ErrIndexOutOfRange.
func NewIndexOutOfRangeError(index, length int) *ErrIndexOutOfRange {
	return &ErrIndexOutOfRange{Index: index, Length: length}
}
