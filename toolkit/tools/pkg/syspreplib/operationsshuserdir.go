// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

// Not enabled by default: removing authorized_keys files can lock users
// out of instances cloned from the template.
func newSshUserdirOperation() *Operation {
	return newGlobDeleteOperation(globDeleteSpec{
		name:             "ssh-userdir",
		enabledByDefault: false,
		heading:          "Remove \".ssh\" directories in the guest",
		description: "Remove the \".ssh\" directory of user \"root\" and any other\n" +
			"users who have a home directory under \"/home\", including\n" +
			"authorized keys and private key material.",
		families: linuxOnly,
		patterns: []string{
			"/home/*/.ssh",
			"/root/.ssh",
		},
		recursive:  true,
		sideEffect: SideEffectRecreateSshUserDirs,
	})
}
