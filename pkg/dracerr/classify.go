// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dracerr

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"os"
	"syscall"
)

// classify maps a platform error value onto a Code. The table mirrors the
// generic system-error mapping and is total: every input yields one code.
func classify(err error) Code {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return classifyErrno(errno)
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Timeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return Timeout
	case errors.As(err, &netErr):
		return NetworkError
	case errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist):
		return NotFound
	case errors.Is(err, fs.ErrPermission) || errors.Is(err, os.ErrPermission):
		return PermissionDenied
	case errors.Is(err, fs.ErrInvalid):
		return InvalidArgument
	}

	return InternalError
}

func classifyErrno(errno syscall.Errno) Code {
	switch errno {
	case syscall.EACCES, syscall.EPERM:
		return PermissionDenied
	case syscall.ENOENT, syscall.ENOTDIR, syscall.EISDIR, syscall.EEXIST:
		return NotFound
	case syscall.ETIMEDOUT:
		return Timeout
	case syscall.EFBIG, syscall.EIO:
		return IoError
	case syscall.ENOMEM:
		return OutOfMemory
	case syscall.EAFNOSUPPORT, syscall.EOPNOTSUPP:
		return NotSupported
	case syscall.ENETUNREACH, syscall.ENETDOWN, syscall.ECONNREFUSED:
		return NetworkError
	case syscall.EINVAL:
		return InvalidArgument
	default:
		return PlatformSpecific
	}
}
