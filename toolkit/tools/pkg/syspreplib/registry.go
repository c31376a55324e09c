// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"fmt"
	"sort"
)

var (
	ErrDuplicateOperation = NewSysprepError("Registry:DuplicateOperation",
		"an operation with this name is already registered")
	ErrUnknownOperation = NewSysprepError("Registry:UnknownOperation",
		"no operation with this name is registered")
)

// Registry holds the operations available to the selector. It is
// populated once during initialization, before any guest is touched, and
// is read-only afterwards.
//
// Registries are plain values: tests build a fresh one instead of sharing
// a process-wide singleton.
type Registry struct {
	operations map[string]*Operation
}

func NewRegistry() *Registry {
	return &Registry{
		operations: make(map[string]*Operation),
	}
}

// Register adds an operation to the registry. Duplicate names and
// missing/double capability variants are configuration defects.
func (r *Registry) Register(op *Operation) error {
	err := op.validateCapability()
	if err != nil {
		return err
	}

	if _, exists := r.operations[op.Name]; exists {
		return fmt.Errorf("%w: (%s)", ErrDuplicateOperation, op.Name)
	}

	r.operations[op.Name] = op
	return nil
}

// List returns all registered operations, sorted by name so that listings
// and help output are deterministic.
func (r *Registry) List() []*Operation {
	operations := []*Operation(nil)
	for _, op := range r.operations {
		operations = append(operations, op)
	}

	sort.Slice(operations, func(i, j int) bool {
		return operations[i].Name < operations[j].Name
	})

	return operations
}

// Lookup returns the operation with the given name.
func (r *Registry) Lookup(name string) (*Operation, error) {
	op, ok := r.operations[name]
	if !ok {
		return nil, fmt.Errorf("%w: (%s)", ErrUnknownOperation, name)
	}

	return op, nil
}
