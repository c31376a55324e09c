// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
)

// Device-scoped operation: runs once per raw block device, with no
// filesystem assumed.
//
// Not enabled by default: guests that reference filesystems by UUID in
// fstab or the bootloader config will not boot until those references
// are updated to match.
func newFsUuidsOperation() *Operation {
	return &Operation{
		Name:             "fs-uuids",
		EnabledByDefault: false,
		Heading:          "Change filesystem UUIDs",
		Description: "Assign a fresh random UUID to the filesystem on every raw\n" +
			"device, so that clones do not share filesystem identities with\n" +
			"the template.",
		OnDevices: fsUuidsOnDevices,
	}
}

func fsUuidsOnDevices(ctx context.Context, guest guestfs.Guest, device string) (bool, error) {
	newUuid, err := uuid.NewRandom()
	if err != nil {
		return false, fmt.Errorf("failed to generate filesystem UUID:\n%w", err)
	}

	logger.Log.Infof("Setting filesystem UUID (%s) on device (%s)", newUuid, device)

	err = guest.SetFilesystemUuid(device, newUuid.String())
	if err != nil {
		return false, err
	}

	return true, nil
}
