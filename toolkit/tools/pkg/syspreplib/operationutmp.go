// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

func newUtmpOperation() *Operation {
	return newGlobDeleteOperation(globDeleteSpec{
		name:             "utmp",
		enabledByDefault: true,
		heading:          "Remove the login records",
		families:         linuxOnly,
		patterns: []string{
			"/run/utmp",
			"/var/log/btmp*",
			"/var/log/wtmp*",
			"/var/run/utmp",
		},
	})
}
