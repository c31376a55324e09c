// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"context"
	"fmt"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
)

var (
	ErrInvalidCapability = NewSysprepError("Registry:InvalidCapability",
		"operation must have exactly one of the filesystem or device capabilities")
)

// FilesystemsFunc mutates one mounted guest root. It returns whether the
// operation applied (false means it decided it was inapplicable, e.g.
// wrong OS family). Side-effect tokens are recorded on the accumulator.
//
// Expected-absence conditions (a glob matching nothing, a target already
// removed) must be swallowed; only genuinely unexpected failures may be
// returned.
type FilesystemsFunc func(ctx context.Context, guest guestfs.Guest, root guestfs.Root,
	args map[string]string, effects *SideEffects) (bool, error)

// DevicesFunc mutates one raw block device, with no filesystem assumed.
type DevicesFunc func(ctx context.Context, guest guestfs.Guest, device string) (bool, error)

// ExtraArg declares a sub-option recognized by an operation.
type ExtraArg struct {
	Name        string
	Description string
	Default     string
}

// Operation describes one named sysprep transformation.
//
// Exactly one of OnFilesystems and OnDevices must be set. Operations must
// be idempotent: running one twice against an already-cleaned root is a
// no-op. An operation may not assume any other operation has or has not
// already run.
type Operation struct {
	// Unique, stable, lowercase identifier.
	Name string
	// Whether the operation is part of the default plan.
	EnabledByDefault bool
	// One-line human-readable description, for listings.
	Heading string
	// Optional extended documentation text.
	Description string
	// Recognized sub-options, validated at selection time.
	ExtraArgs []ExtraArg

	OnFilesystems FilesystemsFunc
	OnDevices     DevicesFunc
}

func (op *Operation) validateCapability() error {
	hasFilesystems := op.OnFilesystems != nil
	hasDevices := op.OnDevices != nil

	if hasFilesystems == hasDevices {
		return fmt.Errorf("%w: (%s)", ErrInvalidCapability, op.Name)
	}

	return nil
}

func (op *Operation) extraArg(name string) (ExtraArg, bool) {
	for _, arg := range op.ExtraArgs {
		if arg.Name == name {
			return arg, true
		}
	}

	return ExtraArg{}, false
}
