package mapfile

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every ParseError.
var ErrSyntax = errors.New("invalid map file")

// ParseError reports the first problem found in a map file.
type ParseError struct {
	Line int    // 1-based; 0 when the problem concerns the file as a whole
	Msg  string // What is wrong
	Err  error  // Underlying validation error, if any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// Unwrap returns the underlying validation error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches ErrSyntax.
func (e *ParseError) Is(target error) bool {
	return target == ErrSyntax
}

func syntaxError(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(line int, msg string, err error) *ParseError {
	return &ParseError{Line: line, Msg: msg, Err: err}
}

// IsParseError reports whether err came from a malformed map file.
func IsParseError(err error) bool {
	return errors.Is(err, ErrSyntax)
}
