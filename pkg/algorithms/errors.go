package algorithms

import (
	"errors"
	"fmt"
)

var (
	// ErrPathNotFound is wrapped by PathNotFoundError.
	ErrPathNotFound = errors.New("no path found")
	// ErrEmptyPath is returned when a path has no nodes.
	ErrEmptyPath = errors.New("empty path")
	// ErrInvalidPath is wrapped by InvalidPathError.
	ErrInvalidPath = errors.New("invalid path")
)

// PathNotFoundError reports that the search never settled the sink.
type PathNotFoundError struct {
	From string
	To   string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("%v from %s to %s", ErrPathNotFound, e.From, e.To)
}

func (e *PathNotFoundError) Unwrap() error {
	return ErrPathNotFound
}

// InvalidPathError reports a hand-built path that does not fit the graph.
type InvalidPathError struct {
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidPath, e.Reason)
}

func (e *InvalidPathError) Unwrap() error {
	return ErrInvalidPath
}

// IsPathNotFound reports whether err means the sink was unreachable.
func IsPathNotFound(err error) bool {
	return errors.Is(err, ErrPathNotFound)
}
