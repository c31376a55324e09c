// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

// Package osinfo reports the distro and version of the host machine.
package osinfo

import (
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/envfile"
)

func GetDistroAndVersion() (string, string) {
	fields, err := envfile.ParseEnvFile("/etc/os-release")
	if err != nil {
		return "Unknown Distro", "Unknown Version"
	}

	distro := fields["NAME"]
	if distro == "" {
		distro = "Unknown Distro"
	}

	version := fields["VERSION"]
	if version == "" {
		version = "Unknown Version"
	}

	return distro, version
}
