// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"context"
	"path"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
	"gopkg.in/ini.v1"
)

// Default cache locations of the common package managers.
var packageManagerCachePatterns = []string{
	"/var/cache/apt/archives/*.deb",
	"/var/cache/apt/archives/partial/*",
	"/var/cache/dnf/*",
	"/var/cache/yum/*",
	"/var/cache/zypp/packages/*",
}

func newPackageManagerCacheOperation() *Operation {
	return &Operation{
		Name:             "package-manager-cache",
		EnabledByDefault: true,
		Heading:          "Remove package manager cache",
		Description: "Remove downloaded packages and metadata cached by apt, dnf,\n" +
			"yum and zypper, including caches relocated via a custom\n" +
			"\"cachedir\" setting in yum/dnf repo files.",
		OnFilesystems: packageManagerCacheOnFilesystems,
	}
}

func packageManagerCacheOnFilesystems(ctx context.Context, guest guestfs.Guest, root guestfs.Root,
	args map[string]string, effects *SideEffects,
) (bool, error) {
	family, err := guest.InspectOsFamily(root)
	if err != nil {
		return false, err
	}
	if family != guestfs.OsFamilyLinux {
		return false, nil
	}

	patterns := append([]string(nil), packageManagerCachePatterns...)

	cacheDirs, err := findRepoCacheDirs(guest, root)
	if err != nil {
		return false, err
	}
	patterns = append(patterns, cacheDirs...)

	_, err = removeGlobs(guest, root, patterns, true)
	if err != nil {
		return false, err
	}

	return true, nil
}

// findRepoCacheDirs scans yum/dnf repo files for non-default cachedir
// settings so that relocated caches get cleaned too. A malformed repo
// file is the guest's problem, not ours: it is logged and skipped.
func findRepoCacheDirs(guest guestfs.Guest, root guestfs.Root) ([]string, error) {
	repoFiles, err := guest.GlobExpand(root, "/etc/yum.repos.d/*.repo")
	if err != nil {
		return nil, err
	}

	cacheDirs := []string(nil)
	for _, repoFile := range repoFiles {
		content, err := guest.ReadFile(root, repoFile)
		if err != nil {
			return nil, err
		}

		repoConfig, err := ini.Load([]byte(content))
		if err != nil {
			logger.Log.Warnf("Skipping malformed repo file (%s): %v", repoFile, err)
			continue
		}

		for _, section := range repoConfig.Sections() {
			if !section.HasKey("cachedir") {
				continue
			}

			cacheDir := section.Key("cachedir").String()
			if !path.IsAbs(cacheDir) {
				logger.Log.Warnf("Ignoring relative cachedir (%s) in repo file (%s)", cacheDir, repoFile)
				continue
			}

			cacheDirs = append(cacheDirs, path.Join(cacheDir, "*"))
		}
	}

	return cacheDirs, nil
}
