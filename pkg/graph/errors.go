package graph

import (
	"errors"
	"fmt"
)

// ErrModel is wrapped by every ModelError.
var ErrModel = errors.New("invalid graph model")

// Rule sentinels, one per validation rule.
var (
	ErrMissingStart    = errors.New("no start node")
	ErrDuplicateStart  = errors.New("more than one start node")
	ErrMissingEnd      = errors.New("no end node")
	ErrDuplicateEnd    = errors.New("more than one end node")
	ErrDuplicateNode   = errors.New("duplicate node name")
	ErrEmptyName       = errors.New("empty node name")
	ErrDuplicateEdge   = errors.New("duplicate edge")
	ErrSelfLoop        = errors.New("edge endpoints must differ")
	ErrUnknownNode     = errors.New("unknown node")
	ErrInvalidCapacity = errors.New("invalid capacity")
	ErrUnreachableSink = errors.New("sink unreachable from source")
	ErrUnknownCategory = errors.New("unknown node category")
	ErrFrozen          = errors.New("graph already built")
)

// ModelError reports the first structural rule a graph violates.
type ModelError struct {
	Rule    error  // One of the rule sentinels above
	Subject string // Node name or "a-b" edge the rule failed on
	Detail  string // Extra context
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	msg := fmt.Sprintf("%v: %v", ErrModel, e.Rule)
	if e.Subject != "" {
		msg += fmt.Sprintf(" (%s)", e.Subject)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the violated rule.
func (e *ModelError) Unwrap() error {
	return e.Rule
}

// Is matches ErrModel as well as the rule sentinel.
func (e *ModelError) Is(target error) bool {
	return target == ErrModel || errors.Is(e.Rule, target)
}

func modelError(rule error, subject, detail string) *ModelError {
	return &ModelError{Rule: rule, Subject: subject, Detail: detail}
}

// IsModelError reports whether err is a graph validation failure.
func IsModelError(err error) bool {
	return errors.Is(err, ErrModel)
}
