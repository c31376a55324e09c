// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"fmt"
	"sort"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/sysprepapi"
)

var (
	ErrUnknownOperationArg = NewSysprepError("Selector:UnknownOperationArg",
		"operation does not recognize this argument")
)

// PlannedOperation is an operation resolved into a plan, with its
// extra-argument values merged (declared defaults overlaid with
// configured values).
type PlannedOperation struct {
	*Operation
	Args map[string]string
}

// Plan is the resolved, ordered set of operations selected for one run.
// Ordering is lexicographic by operation name so that runs are
// reproducible across invocations and platforms.
type Plan struct {
	Operations []PlannedOperation
}

// SelectOperations resolves the requested operation set:
//
//	plan = (enabled-by-default ∪ enable) \ exclude
//
// Every requested name must be registered; unknown names are a
// configuration defect, reported before any guest is touched.
func SelectOperations(registry *Registry, config sysprepapi.Operations) (*Plan, error) {
	selected := make(map[string]bool)
	for _, op := range registry.List() {
		if op.EnabledByDefault {
			selected[op.Name] = true
		}
	}

	for _, name := range config.Enable {
		_, err := registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		selected[name] = true
	}

	for _, name := range config.Exclude {
		_, err := registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		delete(selected, name)
	}

	names := []string(nil)
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)

	plan := &Plan{}
	for _, name := range names {
		op, err := registry.Lookup(name)
		if err != nil {
			return nil, err
		}

		args, err := resolveArgs(op, config.Args[name])
		if err != nil {
			return nil, err
		}

		plan.Operations = append(plan.Operations, PlannedOperation{
			Operation: op,
			Args:      args,
		})
	}

	// Argument values for operations outside the plan are still checked
	// against the registry, so that typos do not silently go unused.
	for name := range config.Args {
		op, err := registry.Lookup(name)
		if err != nil {
			return nil, err
		}

		if !selected[name] {
			_, err = resolveArgs(op, config.Args[name])
			if err != nil {
				return nil, err
			}
		}
	}

	return plan, nil
}

func resolveArgs(op *Operation, configured map[string]string) (map[string]string, error) {
	if len(op.ExtraArgs) == 0 && len(configured) == 0 {
		return nil, nil
	}

	args := make(map[string]string)
	for _, arg := range op.ExtraArgs {
		args[arg.Name] = arg.Default
	}

	for name, value := range configured {
		if _, recognized := op.extraArg(name); !recognized {
			return nil, fmt.Errorf("%w: (%s.%s)", ErrUnknownOperationArg, op.Name, name)
		}
		args[name] = value
	}

	return args, nil
}
