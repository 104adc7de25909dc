// Package errors provides structured error reporting for the virtual content
// engine.
//
// The engine never aborts a reconciliation pass because of a host failure.
// Anomalies are normalized in place and reported here so hosts can observe
// them without the engine returning errors from frame callbacks.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindGeometry indicates a failed geometry query, such as measuring an
	// item that was detached mid-pass.
	KindGeometry
	// KindStructure indicates an unexpected child-list shape.
	KindStructure
	// KindConfig indicates invalid configuration.
	KindConfig
	// KindInit indicates an initialization error.
	KindInit
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindGeometry:
		return "geometry"
	case KindStructure:
		return "structure"
	case KindConfig:
		return "config"
	case KindInit:
		return "init"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel errors returned by hosts and wrapped by the engine.
var (
	// ErrNoLayout is returned when geometry is requested from an item that
	// does not participate in layout.
	ErrNoLayout = stderrors.New("item has no layout")
	// ErrDetached is returned when geometry is requested from an item that
	// is not attached to a container.
	ErrDetached = stderrors.New("item is detached")
)

// VirtualError represents a structured error reported by the engine.
type VirtualError struct {
	// Op is the operation that failed (e.g., "virtual.Content.Update").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Item describes the item involved, if any.
	Item string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *VirtualError) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("%s [%s] item=%s: %v", e.Op, e.Kind, e.Item, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *VirtualError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "virtual.Content.Update").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *VirtualError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
