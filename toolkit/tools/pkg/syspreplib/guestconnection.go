// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"fmt"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
)

var (
	ErrConnectGuest = NewSysprepError("Guest:Connect",
		"failed to connect to the guest tree")
	ErrGuestNotMountpoint = NewSysprepError("Guest:NotMountpoint",
		"guest root is not a mountpoint")
)

// GuestConnection scopes the guest handle to one image run. The handle is
// acquired once before the plan runs and must be released on every exit
// path; leaving it open would keep the guest tree locked for any
// subsequent tooling.
type GuestConnection struct {
	guest guestfs.Guest
}

// ConnectGuestTree opens the mounted guest tree at guestRootDir.
//
// With backupFile set, every removed or rewritten path is first archived.
// With requireMountpoint set, the connection fails unless the tree is
// backed by a real mount.
func ConnectGuestTree(guestRootDir string, backupFile string, requireMountpoint bool,
) (*GuestConnection, error) {
	dirGuest, err := guestfs.NewDirGuest(guestRootDir)
	if err != nil {
		return nil, fmt.Errorf("%w:\n%w", ErrConnectGuest, err)
	}

	mounted, err := dirGuest.IsMountpoint()
	if err != nil {
		dirGuest.Close()
		return nil, fmt.Errorf("%w:\n%w", ErrConnectGuest, err)
	}
	if !mounted {
		if requireMountpoint {
			dirGuest.Close()
			return nil, fmt.Errorf("%w: (%s)", ErrGuestNotMountpoint, guestRootDir)
		}

		logger.Log.Warnf("Guest root (%s) is not a mountpoint", guestRootDir)
	}

	var guest guestfs.Guest = dirGuest
	if backupFile != "" {
		backupGuest, err := guestfs.NewBackupGuest(dirGuest, backupFile)
		if err != nil {
			dirGuest.Close()
			return nil, fmt.Errorf("%w:\n%w", ErrConnectGuest, err)
		}
		guest = backupGuest
	}

	return &GuestConnection{
		guest: guest,
	}, nil
}

func (c *GuestConnection) Guest() guestfs.Guest {
	return c.guest
}

func (c *GuestConnection) Close() {
	if c.guest == nil {
		return
	}

	err := c.guest.Close()
	if err != nil {
		logger.Log.Warnf("Failed to release guest handle: %v", err)
	}
	c.guest = nil
}
