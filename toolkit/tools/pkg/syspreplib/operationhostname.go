// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"context"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
)

const hostnameArgName = "hostname"

var (
	ErrInvalidHostnameArg = NewSysprepError("Operation:InvalidHostnameArg",
		"invalid hostname argument")
)

func newHostnameOperation() *Operation {
	return &Operation{
		Name:             "hostname",
		EnabledByDefault: true,
		Heading:          "Change the hostname of the guest",
		ExtraArgs: []ExtraArg{
			{
				Name:        hostnameArgName,
				Description: "New hostname for the guest.",
				Default:     "localhost.localdomain",
			},
		},
		OnFilesystems: hostnameOnFilesystems,
	}
}

func hostnameOnFilesystems(ctx context.Context, guest guestfs.Guest, root guestfs.Root,
	args map[string]string, effects *SideEffects,
) (bool, error) {
	family, err := guest.InspectOsFamily(root)
	if err != nil {
		return false, err
	}
	if family != guestfs.OsFamilyLinux {
		return false, nil
	}

	hostname := args[hostnameArgName]
	if !govalidator.IsDNSName(hostname) || strings.Contains(hostname, "_") {
		return false, fmt.Errorf("%w: (%s)", ErrInvalidHostnameArg, hostname)
	}

	exists, err := guest.PathExists(root, "/etc/hostname")
	if err != nil {
		return false, err
	}
	if !exists {
		// Nothing to reset on guests that configure the hostname
		// elsewhere (e.g. DHCP).
		return false, nil
	}

	current, err := guest.ReadFile(root, "/etc/hostname")
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(current) == hostname {
		return true, nil
	}

	logger.Log.Infof("Setting hostname (%s)", hostname)

	err = guest.WriteFile(root, "/etc/hostname", hostname+"\n")
	if err != nil {
		return false, err
	}

	effects.Record(SideEffectVerifyHostname)
	return true, nil
}
