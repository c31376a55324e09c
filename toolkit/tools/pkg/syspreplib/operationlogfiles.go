// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

func newLogfilesOperation() *Operation {
	return newGlobDeleteOperation(globDeleteSpec{
		name:             "logfiles",
		enabledByDefault: true,
		heading:          "Remove many log files from the guest",
		description: "Remove log files, installer leftovers and audit trails that\n" +
			"record the history of the template build.",
		families: linuxOnly,
		patterns: []string{
			"/root/anaconda-ks.cfg",
			"/root/install.log",
			"/root/install.log.syslog",
			"/var/log/*.log*",
			"/var/log/anaconda",
			"/var/log/anaconda.syslog",
			"/var/log/audit/audit.log*",
			"/var/log/cron*",
			"/var/log/dmesg*",
			"/var/log/grubby*",
			"/var/log/journal/*",
			"/var/log/lastlog*",
			"/var/log/maillog*",
			"/var/log/messages*",
			"/var/log/secure*",
			"/var/log/spooler*",
			"/var/log/sysstat/*",
		},
		recursive: true,
	})
}
