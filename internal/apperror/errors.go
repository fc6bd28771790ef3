package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the store, mirror, coordinator and query engine.
// Callers wrap them with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	// ErrValidation is returned for malformed input; no mutation is attempted.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDirectoryNotFound is returned when a mirror directory does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrDirectoryEmpty is returned when a mirror directory holds no images.
	ErrDirectoryEmpty = errors.New("no images found")

	// ErrMirrorInconsistency is returned after the store committed but the
	// matching mirror operation failed.
	ErrMirrorInconsistency = errors.New("mirror inconsistency")

	// ErrReferentialGap marks a dangling category or parent reference.
	ErrReferentialGap = errors.New("referential gap")

	// ErrNoResults signals a search that matched nothing.
	ErrNoResults = errors.New("no results found")

	// ErrNoTrending signals that there are no orders to rank.
	ErrNoTrending = errors.New("no trending products")
)

// Wrapf annotates a sentinel with a formatted reason.
func Wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
