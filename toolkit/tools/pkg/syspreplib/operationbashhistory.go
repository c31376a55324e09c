// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

func newBashHistoryOperation() *Operation {
	return newGlobDeleteOperation(globDeleteSpec{
		name:             "bash-history",
		enabledByDefault: true,
		heading:          "Remove the bash history in the guest",
		description: "Remove the bash history of user \"root\" and any other users\n" +
			"who have a home directory under \"/home\".",
		families: linuxOnly,
		patterns: []string{
			"/home/*/.bash_history",
			"/root/.bash_history",
		},
	})
}
