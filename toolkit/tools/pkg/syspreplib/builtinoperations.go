// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

// The built-in operations, in the order they are registered. Each entry
// is an explicit constructor invoked during initialization; nothing is
// registered through package init side effects, so tests can build a
// fresh registry without leaked global state.
var builtInOperations = []func() *Operation{
	newAbrtDataOperation,
	newBashHistoryOperation,
	newCrashDataOperation,
	newDhcpClientStateOperation,
	newFsUuidsOperation,
	newHostnameOperation,
	newLogfilesOperation,
	newMachineIdOperation,
	newMailSpoolOperation,
	newPackageManagerCacheOperation,
	newRpmDbOperation,
	newSshHostkeysOperation,
	newSshUserdirOperation,
	newTmpFilesOperation,
	newUtmpOperation,
}

// NewBuiltInRegistry builds a registry holding all built-in operations.
func NewBuiltInRegistry() (*Registry, error) {
	registry := NewRegistry()
	for _, newOperation := range builtInOperations {
		err := registry.Register(newOperation())
		if err != nil {
			return nil, err
		}
	}

	return registry, nil
}
