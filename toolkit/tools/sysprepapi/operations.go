// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package sysprepapi

import (
	"fmt"
	"regexp"
)

// Operation names are lowercase, dash separated.
var operationNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Operations selects which sysprep operations run and supplies their
// extra-argument values.
type Operations struct {
	// Operations to run in addition to the default set.
	Enable []string `yaml:"enable" json:"enable,omitempty"`
	// Operations to remove from the run.
	Exclude []string `yaml:"exclude" json:"exclude,omitempty"`
	// Per-operation extra-argument values, keyed by operation name.
	Args map[string]map[string]string `yaml:"args" json:"args,omitempty"`
}

func (o *Operations) IsValid() error {
	for _, name := range o.Enable {
		err := validateOperationName(name)
		if err != nil {
			return err
		}
	}

	for _, name := range o.Exclude {
		err := validateOperationName(name)
		if err != nil {
			return err
		}
	}

	for name := range o.Args {
		err := validateOperationName(name)
		if err != nil {
			return err
		}
	}

	return nil
}

func validateOperationName(name string) error {
	if !operationNameRegex.MatchString(name) {
		return fmt.Errorf("invalid operation name (%s)", name)
	}

	return nil
}
