// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

func newMailSpoolOperation() *Operation {
	return newGlobDeleteOperation(globDeleteSpec{
		name:             "mail-spool",
		enabledByDefault: true,
		heading:          "Remove email from the local mail spool directory",
		families:         linuxOnly,
		patterns: []string{
			"/var/mail/*",
			"/var/spool/mail/*",
		},
		recursive: true,
	})
}
