// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

func newTmpFilesOperation() *Operation {
	return newGlobDeleteOperation(globDeleteSpec{
		name:             "tmp-files",
		enabledByDefault: true,
		heading:          "Remove temporary files",
		families:         linuxOnly,
		patterns: []string{
			"/tmp/*",
			"/var/tmp/*",
		},
		recursive: true,
	})
}
