// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

// Package sysprepapi defines the sysprep config file format.
package sysprepapi

import (
	"fmt"
)

// Config is the top-level sysprep config file.
type Config struct {
	Operations Operations `yaml:"operations" json:"operations,omitempty"`
	Backup     *Backup    `yaml:"backup" json:"backup,omitempty"`
}

func (c *Config) IsValid() (err error) {
	err = c.Operations.IsValid()
	if err != nil {
		return fmt.Errorf("invalid 'operations' field:\n%w", err)
	}

	if c.Backup != nil {
		err = c.Backup.IsValid()
		if err != nil {
			return fmt.Errorf("invalid 'backup' field:\n%w", err)
		}
	}

	return nil
}
