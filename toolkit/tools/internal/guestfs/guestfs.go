// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

// Package guestfs defines the capability interface used to inspect and
// mutate an offline guest, plus an implementation backed by an
// already-mounted guest filesystem tree.
package guestfs

import (
	"fmt"
)

// OsFamily identifies the operating system family of a guest root.
type OsFamily string

const (
	OsFamilyLinux   OsFamily = "linux"
	OsFamilyWindows OsFamily = "windows"
	OsFamilyUnknown OsFamily = "unknown"
)

func (f OsFamily) IsValid() error {
	switch f {
	case OsFamilyLinux, OsFamilyWindows, OsFamilyUnknown:
		// All good.
		return nil

	default:
		return fmt.Errorf("invalid OS family value (%s)", f)
	}
}

// Root identifies one bootable OS installation found on the guest.
// Multi-boot guests yield multiple roots.
type Root struct {
	// Stable identifier, used for report output and visitation ordering.
	ID string
}

// Guest is the introspection/manipulation capability consumed by the
// sysprep framework.
//
// Calls are never made concurrently. Paths are guest-absolute (e.g.
// "/var/log/messages"). The removal and truncation primitives tolerate
// already-absent paths: expected absence is not an error, anything else
// is a genuine failure.
type Guest interface {
	// ListRoots returns the bootable OS installations found on the guest.
	ListRoots() ([]Root, error)

	// InspectOsFamily determines the OS family of a root.
	InspectOsFamily(root Root) (OsFamily, error)

	// GlobExpand expands a glob pattern against the root's filesystem.
	// The result is sorted and possibly empty.
	GlobExpand(root Root, pattern string) ([]string, error)

	// PathExists reports whether the path exists under the root.
	PathExists(root Root, path string) (bool, error)

	// ReadFile returns the contents of a file under the root.
	ReadFile(root Root, path string) (string, error)

	// Remove removes a single file.
	Remove(root Root, path string) error

	// RemoveRecursive removes a file or directory tree.
	RemoveRecursive(root Root, path string) error

	// Truncate truncates an existing file to zero length.
	Truncate(root Root, path string) error

	// WriteFile replaces the contents of a file, creating it if needed.
	WriteFile(root Root, path string, content string) error

	// ListDevices returns the raw block devices backing the guest,
	// independent of filesystem structure.
	ListDevices() ([]string, error)

	// SetFilesystemUuid assigns a new filesystem UUID to a raw device.
	SetFilesystemUuid(device string, uuid string) error

	// Close releases the guest handle.
	Close() error
}
