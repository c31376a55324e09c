// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"context"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
)

// Conditional-removal class: only applies when the guest actually carries
// an RPM database.
func newRpmDbOperation() *Operation {
	return newGlobDeleteOperation(globDeleteSpec{
		name:             "rpm-db",
		enabledByDefault: true,
		heading:          "Remove host-specific RPM database files",
		description: "Remove the RPM database lock files (__db.*). RPM recreates\n" +
			"them on first use; stale copies carry host-specific state.",
		families: linuxOnly,
		precondition: func(ctx context.Context, guest guestfs.Guest, root guestfs.Root) (bool, error) {
			return guest.PathExists(root, "/var/lib/rpm")
		},
		patterns: []string{
			"/var/lib/rpm/__db.*",
		},
	})
}
