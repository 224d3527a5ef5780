package ir

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrorKind categorizes graph errors.
type ErrorKind uint8

const (
	// ErrPathNotFound indicates that a path does not name an attribute.
	ErrPathNotFound ErrorKind = iota

	// ErrTypeMismatch indicates a component that the attribute type does not
	// have, or an entity of the wrong kind (e.g. a tree where an attribute
	// is required).
	ErrTypeMismatch

	// ErrMissingReference indicates a reference attribute without
	// connection or a constant attribute without initializer.
	ErrMissingReference

	// ErrNameCollision indicates that a name is already taken.
	ErrNameCollision

	// ErrSelfInsertion indicates an attempt to add a tree to itself or a
	// child that already has a parent.
	ErrSelfInsertion

	// ErrInvalidHandle indicates a handle that does not belong to the graph.
	ErrInvalidHandle
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrPathNotFound:
		return "PathNotFound"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrMissingReference:
		return "MissingReference"
	case ErrNameCollision:
		return "NameCollision"
	case ErrSelfInsertion:
		return "SelfInsertion"
	case ErrInvalidHandle:
		return "InvalidHandle"
	default:
		return "Unknown"
	}
}

// Error is an error raised by a graph operation.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Path is the full path of the entity the error refers to, if known.
	Path string

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("ir %s '%s': %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("ir %s: %s", e.Kind, e.Message)
}

// NewError creates a new error without path information.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// IsPathNotFound reports whether err is an *Error of kind ErrPathNotFound.
func IsPathNotFound(err error) bool {
	return hasKind(err, ErrPathNotFound)
}

// IsTypeMismatch reports whether err is an *Error of kind ErrTypeMismatch.
func IsTypeMismatch(err error) bool {
	return hasKind(err, ErrTypeMismatch)
}

// IsMissingReference reports whether err is an *Error of kind ErrMissingReference.
func IsMissingReference(err error) bool {
	return hasKind(err, ErrMissingReference)
}

// IsNameCollision reports whether err is an *Error of kind ErrNameCollision.
func IsNameCollision(err error) bool {
	return hasKind(err, ErrNameCollision)
}

// IsSelfInsertion reports whether err is an *Error of kind ErrSelfInsertion.
func IsSelfInsertion(err error) bool {
	return hasKind(err, ErrSelfInsertion)
}

// IsInvalidHandle reports whether err is an *Error of kind ErrInvalidHandle.
func IsInvalidHandle(err error) bool {
	return hasKind(err, ErrInvalidHandle)
}

func hasKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// report logs the error and returns it.
func report(kind ErrorKind, path, format string, args ...any) *Error {
	e := &Error{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
	Logger().Error(e.Message, slog.String("kind", kind.String()), slog.String("path", path))
	return e
}
