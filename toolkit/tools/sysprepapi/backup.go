// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package sysprepapi

import (
	"fmt"
	"strings"
)

// Backup configures the archive that receives guest files before they are
// removed.
type Backup struct {
	// Archive file path. The extension selects the compression format.
	Path string `yaml:"path" json:"path,omitempty"`
}

func (b *Backup) IsValid() error {
	if b.Path == "" {
		return fmt.Errorf("backup path must not be empty")
	}

	switch {
	case strings.HasSuffix(b.Path, ".tar.gz"),
		strings.HasSuffix(b.Path, ".tgz"),
		strings.HasSuffix(b.Path, ".tar.zst"):
		// All good.
		return nil

	default:
		return fmt.Errorf("invalid backup path (%s): expected a .tar.gz, .tgz or .tar.zst extension", b.Path)
	}
}
