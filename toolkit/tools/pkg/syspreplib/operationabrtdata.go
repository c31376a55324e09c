// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

func newAbrtDataOperation() *Operation {
	return newGlobDeleteOperation(globDeleteSpec{
		name:             "abrt-data",
		enabledByDefault: true,
		heading:          "Remove the crash data generated by ABRT",
		families:         linuxOnly,
		patterns: []string{
			"/var/spool/abrt/*",
			"/var/tmp/abrt/*",
		},
		recursive: true,
	})
}
