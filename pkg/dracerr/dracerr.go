// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package dracerr provides the structured error model shared by every
// readout, cache operation, package counter, and weather provider.
//
// Every fallible operation in draconis yields either a value or an *Error
// carrying one of thirteen Codes. Individual failures never abort a run;
// they are stored in the aggregate record and surfaced as missing panel
// rows or as doctor-mode failure lines.
//
// # Construction Paths
//
// Errors are built one of three ways:
//
//   - directly, with a code and message: New(NotFound, "no DMI product name")
//   - from a platform error value: FromSys(err) maps errno/os errors to a
//     code using a fixed, total table
//   - from an arbitrary native error: Wrap(err) classifies it InternalError
//
// Each constructor records the capture site (file, line, function); Site
// formats it. draconis's own logging does not print it.
//
// # Results
//
// Result[T] pairs a value with an optional *Error. It exists so the
// aggregate record can hold one independently-fallible slot per readout;
// readers must branch on IsOk before using the value.
package dracerr

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// =============================================================================
// Error Codes
// =============================================================================

// Code is the general category of a draconis error.
type Code uint8

const (
	// ApiUnavailable means a required service or API failed at runtime
	// (HTTP transport failure, unreachable D-Bus, unusable database).
	ApiUnavailable Code = iota

	// InternalError is a failure inside draconis's own abstraction code,
	// including wrapped native errors with no better classification.
	InternalError

	// InvalidArgument means the caller supplied an unusable value
	// (reserved characters in a cache key, missing API key).
	InvalidArgument

	// IoError is a general I/O failure (filesystem, pipes).
	IoError

	// NetworkError is a network-level failure (DNS, connect refused,
	// network down or unreachable).
	NetworkError

	// NotFound means a required resource (file, registry key, device,
	// cache entry, media session) does not exist.
	NotFound

	// NotSupported means the operation is meaningless on this platform,
	// version, or configuration.
	NotSupported

	// Other is a generic or unclassified error from the OS or a library.
	Other

	// OutOfMemory maps allocation failures reported by the platform.
	OutOfMemory

	// ParseError means data obtained from the OS or an API could not be
	// decoded (corrupt cache entry, malformed JSON, negative DB count).
	ParseError

	// PermissionDenied means the process lacks rights for the operation.
	PermissionDenied

	// PlatformSpecific is an unmapped error specific to the underlying
	// platform; the message carries the details.
	PlatformSpecific

	// Timeout means an operation exceeded its deadline (IPC reply, HTTP).
	Timeout
)

// String returns the CamelCase code name as printed by doctor mode.
func (c Code) String() string {
	switch c {
	case ApiUnavailable:
		return "ApiUnavailable"
	case InternalError:
		return "InternalError"
	case InvalidArgument:
		return "InvalidArgument"
	case IoError:
		return "IoError"
	case NetworkError:
		return "NetworkError"
	case NotFound:
		return "NotFound"
	case NotSupported:
		return "NotSupported"
	case Other:
		return "Other"
	case OutOfMemory:
		return "OutOfMemory"
	case ParseError:
		return "ParseError"
	case PermissionDenied:
		return "PermissionDenied"
	case PlatformSpecific:
		return "PlatformSpecific"
	case Timeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// =============================================================================
// Error
// =============================================================================

// Error is a structured OS-level error with a code, a human-readable
// message, and the capture site recorded at construction.
type Error struct {
	// Code is the general category of the error.
	Code Code

	// Message describes the failure, potentially including platform detail.
	Message string

	// File, Line, and Function identify where the error was constructed.
	// They are not part of Error() and are not logged by draconis.
	File     string
	Line     int
	Function string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Site returns the capture site as "file:line (function)", or "" when the
// site could not be captured.
func (e *Error) Site() string {
	if e.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d (%s)", e.File, e.Line, e.Function)
}

// Is reports whether target is an *Error with the same code, letting
// callers match categories with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// capture records the caller's site, skipping the constructor frames.
func capture(e *Error, skip int) *Error {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return e
	}
	e.File = filepath.Base(file)
	e.Line = line
	if fn := runtime.FuncForPC(pc); fn != nil {
		e.Function = fn.Name()
	}
	return e
}

// New constructs an Error with the given code and message.
func New(code Code, msg string) *Error {
	return capture(&Error{Code: code, Message: msg}, 2)
}

// Newf constructs an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return capture(&Error{Code: code, Message: fmt.Sprintf(format, args...)}, 2)
}

// Wrap classifies an arbitrary native error as InternalError. A nil input
// returns nil. An input that is already an *Error is returned unchanged so
// codes survive layered call paths.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	if de, ok := err.(*Error); ok {
		return de
	}
	return capture(&Error{Code: InternalError, Message: err.Error()}, 2)
}

// FromSys maps a platform error to an Error using the fixed errno table.
// The mapping is total: every input yields exactly one code. A nil input
// returns nil.
func FromSys(err error) *Error {
	if err == nil {
		return nil
	}
	if de, ok := err.(*Error); ok {
		return de
	}
	return capture(&Error{Code: classify(err), Message: err.Error()}, 2)
}

// FromSysf is FromSys with a context prefix on the message, mirroring the
// "context: strerror" shape adapters use for syscall failures.
func FromSysf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...) + ": " + err.Error()
	return capture(&Error{Code: classify(err), Message: msg}, 2)
}

// =============================================================================
// Result
// =============================================================================

// Result carries either a value of T or an *Error. The zero value is an
// Ok-result holding T's zero value; readouts always populate slots through
// Ok or Fail.
type Result[T any] struct {
	value T
	err   *Error
}

// Ok returns a successful Result holding v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail returns a failed Result holding err. A nil err is promoted to an
// InternalError so a failed Result is never silently Ok.
func Fail[T any](err *Error) Result[T] {
	if err == nil {
		err = capture(&Error{Code: InternalError, Message: "nil error in failed result"}, 2)
	}
	return Result[T]{err: err}
}

// IsOk reports whether the Result holds a value.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Value returns the held value. It is only meaningful when IsOk is true.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the held error, or nil for a successful Result.
func (r Result[T]) Err() *Error {
	return r.err
}

// Unpack returns the value and error together for callers that prefer the
// conventional two-value form.
func (r Result[T]) Unpack() (T, *Error) {
	return r.value, r.err
}
