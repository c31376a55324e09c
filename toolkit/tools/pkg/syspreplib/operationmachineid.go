// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"context"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
)

func newMachineIdOperation() *Operation {
	return &Operation{
		Name:             "machine-id",
		EnabledByDefault: true,
		Heading:          "Remove the local machine ID",
		Description: "Truncate /etc/machine-id and remove the D-Bus copy. systemd\n" +
			"generates a fresh ID on the next boot of a clone.",
		OnFilesystems: machineIdOnFilesystems,
	}
}

func machineIdOnFilesystems(ctx context.Context, guest guestfs.Guest, root guestfs.Root,
	args map[string]string, effects *SideEffects,
) (bool, error) {
	family, err := guest.InspectOsFamily(root)
	if err != nil {
		return false, err
	}
	if family != guestfs.OsFamilyLinux {
		return false, nil
	}

	cleaned := false

	exists, err := guest.PathExists(root, "/etc/machine-id")
	if err != nil {
		return false, err
	}
	if exists {
		content, err := guest.ReadFile(root, "/etc/machine-id")
		if err != nil {
			return false, err
		}

		// An already-empty file means the root was cleaned before;
		// truncating again must not re-emit the side effect.
		if content != "" {
			err = guest.Truncate(root, "/etc/machine-id")
			if err != nil {
				return false, err
			}
			cleaned = true
		}
	}

	exists, err = guest.PathExists(root, "/var/lib/dbus/machine-id")
	if err != nil {
		return false, err
	}
	if exists {
		err = guest.Remove(root, "/var/lib/dbus/machine-id")
		if err != nil {
			return false, err
		}
		cleaned = true
	}

	if cleaned {
		effects.Record(SideEffectRegenerateMachineId)
	}

	return true, nil
}
