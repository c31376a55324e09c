// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"context"
	"fmt"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/sliceutils"
)

// globDeleteSpec describes an operation of the glob-delete class: a fixed,
// lexicographically sorted list of glob patterns expanded against the root
// and removed, tolerating zero matches.
type globDeleteSpec struct {
	name             string
	enabledByDefault bool
	heading          string
	description      string

	// OS families the operation applies to; other roots are skipped.
	families []guestfs.OsFamily
	// Optional secondary gate checked after the family gate
	// (conditional-removal class).
	precondition func(ctx context.Context, guest guestfs.Guest, root guestfs.Root) (bool, error)

	patterns []string
	// Remove matched directories recursively instead of as single files.
	recursive bool
	// Side-effect token recorded when at least one path was removed.
	sideEffect string
}

func newGlobDeleteOperation(spec globDeleteSpec) *Operation {
	return &Operation{
		Name:             spec.name,
		EnabledByDefault: spec.enabledByDefault,
		Heading:          spec.heading,
		Description:      spec.description,
		OnFilesystems: func(ctx context.Context, guest guestfs.Guest, root guestfs.Root,
			args map[string]string, effects *SideEffects,
		) (bool, error) {
			family, err := guest.InspectOsFamily(root)
			if err != nil {
				return false, err
			}
			if !sliceutils.ContainsValue(spec.families, family) {
				return false, nil
			}

			if spec.precondition != nil {
				ok, err := spec.precondition(ctx, guest, root)
				if err != nil {
					return false, err
				}
				if !ok {
					return false, nil
				}
			}

			removedCount, err := removeGlobs(guest, root, spec.patterns, spec.recursive)
			if err != nil {
				return false, err
			}

			if removedCount > 0 && spec.sideEffect != "" {
				effects.Record(spec.sideEffect)
			}

			return true, nil
		},
	}
}

// removeGlobs expands each pattern and removes every match. Zero matches
// is an expected condition, not an error.
func removeGlobs(guest guestfs.Guest, root guestfs.Root, patterns []string, recursive bool,
) (int, error) {
	removedCount := 0
	for _, pattern := range patterns {
		matches, err := guest.GlobExpand(root, pattern)
		if err != nil {
			return removedCount, fmt.Errorf("failed to expand pattern (%s):\n%w", pattern, err)
		}

		for _, match := range matches {
			if recursive {
				err = guest.RemoveRecursive(root, match)
			} else {
				err = guest.Remove(root, match)
			}
			if err != nil {
				return removedCount, err
			}

			removedCount++
		}
	}

	if removedCount > 0 {
		logger.Log.Debugf("Removed %d path(s) from root (%s)", removedCount, root.ID)
	}

	return removedCount, nil
}

// linuxOnly is the applicability gate shared by most built-in operations.
var linuxOnly = []guestfs.OsFamily{guestfs.OsFamilyLinux}
