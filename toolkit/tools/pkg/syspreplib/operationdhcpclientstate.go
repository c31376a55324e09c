// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

func newDhcpClientStateOperation() *Operation {
	return newGlobDeleteOperation(globDeleteSpec{
		name:             "dhcp-client-state",
		enabledByDefault: true,
		heading:          "Remove DHCP client leases",
		description: "Remove the leases cached by the DHCP client, which tie the\n" +
			"template to the network it was built on.",
		families: linuxOnly,
		patterns: []string{
			"/var/lib/NetworkManager/*.lease",
			"/var/lib/dhclient/*",
			"/var/lib/dhcp/*",
		},
	})
}
