// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

func newSshHostkeysOperation() *Operation {
	return newGlobDeleteOperation(globDeleteSpec{
		name:             "ssh-hostkeys",
		enabledByDefault: true,
		heading:          "Remove the SSH host keys in the guest",
		description: "Remove the SSH host keys so that every instance cloned from\n" +
			"the template generates its own identity on first boot. Most\n" +
			"distros regenerate missing host keys automatically; on ones that\n" +
			"do not, run ssh-keygen -A after cloning.",
		families: linuxOnly,
		patterns: []string{
			"/etc/ssh/*_host_*",
		},
		sideEffect: SideEffectRegenerateSshHostKeys,
	})
}
