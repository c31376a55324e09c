// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"context"
	"testing"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
	"github.com/stretchr/testify/assert"
)

func nopFilesystemsFunc(ctx context.Context, guest guestfs.Guest, root guestfs.Root,
	args map[string]string, effects *SideEffects,
) (bool, error) {
	return true, nil
}

func nopDevicesFunc(ctx context.Context, guest guestfs.Guest, device string) (bool, error) {
	return true, nil
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(&Operation{
		Name:          "zap-caches",
		OnFilesystems: nopFilesystemsFunc,
	})
	assert.NoError(t, err)

	op, err := registry.Lookup("zap-caches")
	assert.NoError(t, err)
	assert.Equal(t, "zap-caches", op.Name)
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(&Operation{
		Name:          "zap-caches",
		OnFilesystems: nopFilesystemsFunc,
	})
	assert.NoError(t, err)

	err = registry.Register(&Operation{
		Name:          "zap-caches",
		OnFilesystems: nopFilesystemsFunc,
	})
	assert.ErrorIs(t, err, ErrDuplicateOperation)
}

func TestRegistryRejectsMissingCapability(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(&Operation{
		Name: "no-capability",
	})
	assert.ErrorIs(t, err, ErrInvalidCapability)
}

func TestRegistryRejectsDoubleCapability(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(&Operation{
		Name:          "double-capability",
		OnFilesystems: nopFilesystemsFunc,
		OnDevices:     nopDevicesFunc,
	})
	assert.ErrorIs(t, err, ErrInvalidCapability)
}

func TestRegistryLookupUnknownName(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Lookup("no-such-operation")
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestRegistryListIsSorted(t *testing.T) {
	registry := NewRegistry()

	for _, name := range []string{"utmp", "bash-history", "machine-id"} {
		err := registry.Register(&Operation{
			Name:          name,
			OnFilesystems: nopFilesystemsFunc,
		})
		assert.NoError(t, err)
	}

	names := []string(nil)
	for _, op := range registry.List() {
		names = append(names, op.Name)
	}
	assert.Equal(t, []string{"bash-history", "machine-id", "utmp"}, names)
}

func TestBuiltInRegistryIsValid(t *testing.T) {
	registry, err := NewBuiltInRegistry()
	if !assert.NoError(t, err) {
		return
	}

	operations := registry.List()
	assert.Len(t, operations, 15)

	defaultNames := []string(nil)
	for _, op := range operations {
		if op.EnabledByDefault {
			defaultNames = append(defaultNames, op.Name)
		}
	}

	assert.Equal(t, []string{
		"abrt-data",
		"bash-history",
		"crash-data",
		"dhcp-client-state",
		"hostname",
		"logfiles",
		"machine-id",
		"mail-spool",
		"package-manager-cache",
		"rpm-db",
		"ssh-hostkeys",
		"tmp-files",
		"utmp",
	}, defaultNames)
}
