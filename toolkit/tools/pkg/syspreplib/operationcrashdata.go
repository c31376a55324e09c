// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

func newCrashDataOperation() *Operation {
	return newGlobDeleteOperation(globDeleteSpec{
		name:             "crash-data",
		enabledByDefault: true,
		heading:          "Remove the crash data generated by kexec-tools",
		families:         linuxOnly,
		patterns: []string{
			"/var/crash/*",
			"/var/log/dump/*",
		},
		recursive: true,
	})
}
