// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sysinfo

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"golang.org/x/sys/unix"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

// waylandCompositor identifies the compositor by connecting to the Wayland
// display socket and resolving the listening process through SO_PEERCRED.
func waylandCompositor() (string, *dracerr.Error) {
	display := os.Getenv("WAYLAND_DISPLAY")

	socketPath := display
	if !filepath.IsAbs(socketPath) {
		runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
		if runtimeDir == "" {
			return "", dracerr.New(dracerr.NotFound, "XDG_RUNTIME_DIR is not set")
		}
		socketPath = filepath.Join(runtimeDir, display)
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return "", dracerr.FromSysf(err, "connecting to wayland socket %s", socketPath)
	}
	defer conn.Close()

	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return "", dracerr.New(dracerr.InternalError, "wayland socket is not a unix connection")
	}

	raw, err := unixConn.SyscallConn()
	if err != nil {
		return "", dracerr.FromSysf(err, "accessing wayland socket descriptor")
	}

	var (
		cred    *unix.Ucred
		credErr error
	)
	if err := raw.Control(func(fd uintptr) {
		cred, credErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	}); err != nil {
		return "", dracerr.FromSysf(err, "reading wayland socket peer")
	}
	if credErr != nil {
		return "", dracerr.FromSysf(credErr, "SO_PEERCRED on wayland socket")
	}

	exe, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", cred.Pid))
	if err != nil {
		return "", dracerr.FromSysf(err, "resolving compositor executable for pid %d", cred.Pid)
	}

	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, "-wrapped")
	name = strings.TrimPrefix(name, ".")
	if name == "" {
		return "", dracerr.New(dracerr.ParseError, "compositor executable has no usable name")
	}
	return name, nil
}

// x11WindowManager reads the EWMH supporting-WM-check window and its
// _NET_WM_NAME property.
func x11WindowManager() (string, *dracerr.Error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return "", dracerr.Newf(dracerr.ApiUnavailable, "connecting to X server: %v", err)
	}
	defer conn.Close()

	root := xproto.Setup(conn).DefaultScreen(conn).Root

	checkAtom, derr := internAtom(conn, "_NET_SUPPORTING_WM_CHECK")
	if derr != nil {
		return "", derr
	}
	nameAtom, derr := internAtom(conn, "_NET_WM_NAME")
	if derr != nil {
		return "", derr
	}
	utf8Atom, derr := internAtom(conn, "UTF8_STRING")
	if derr != nil {
		return "", derr
	}

	checkReply, err := xproto.GetProperty(conn, false, root, checkAtom, xproto.AtomWindow, 0, 1).Reply()
	if err != nil {
		return "", dracerr.Newf(dracerr.ApiUnavailable, "reading _NET_SUPPORTING_WM_CHECK: %v", err)
	}
	if len(checkReply.Value) < 4 {
		return "", dracerr.New(dracerr.NotFound, "no EWMH-compliant window manager detected")
	}

	wmWindow := xproto.Window(xgb.Get32(checkReply.Value))

	nameReply, err := xproto.GetProperty(conn, false, wmWindow, nameAtom, utf8Atom, 0, 64).Reply()
	if err != nil {
		return "", dracerr.Newf(dracerr.ApiUnavailable, "reading _NET_WM_NAME: %v", err)
	}

	name := strings.TrimRight(string(nameReply.Value), "\x00")
	if name == "" {
		return "", dracerr.New(dracerr.NotFound, "window manager did not publish _NET_WM_NAME")
	}
	return name, nil
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, *dracerr.Error) {
	reply, err := xproto.InternAtom(conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, dracerr.Newf(dracerr.ApiUnavailable, "interning atom %s: %v", name, err)
	}
	if reply.Atom == xproto.AtomNone {
		return 0, dracerr.Newf(dracerr.NotFound, "atom %s does not exist", name)
	}
	return reply.Atom, nil
}
