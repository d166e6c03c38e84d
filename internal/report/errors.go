package report

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPlaceholder is matched by MissingPlaceholderError.
	ErrMissingPlaceholder = errors.New("missing placeholder")
	// ErrMissingField is matched by MissingFieldError.
	ErrMissingField = errors.New("missing template field")
	// ErrMalformedTemplate is returned for unbalanced braces.
	ErrMalformedTemplate = errors.New("malformed template")
	// ErrFileAccess is matched by FileAccessError.
	ErrFileAccess = errors.New("file access failed")
)

// MissingPlaceholderError reports an item format without {item} or {price}.
type MissingPlaceholderError struct {
	Format      string
	Placeholder string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("item format %q is missing %s: keywords %s and %s are required",
		e.Format, e.Placeholder, ItemPlaceholder, PricePlaceholder)
}

func (e *MissingPlaceholderError) Is(target error) bool { return target == ErrMissingPlaceholder }

// MissingFieldError reports a template placeholder that has no value.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("no value supplied for template field {%s}", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// FileAccessError wraps an I/O failure on a report file.
type FileAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

func (e *FileAccessError) Is(target error) bool { return target == ErrFileAccess }
