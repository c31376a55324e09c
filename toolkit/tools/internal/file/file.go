// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

// Package file defines QoL functions for file access.
package file

import (
	"fmt"
	"os"
)

// Read returns the contents of the file as a string.
func Read(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file (%s):\n%w", path, err)
	}

	return string(content), nil
}

// Write writes a string to the file, replacing any existing contents.
func Write(content string, path string) error {
	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		return fmt.Errorf("failed to write file (%s):\n%w", path, err)
	}

	return nil
}

// PathExists reports whether the path exists.
// A broken symlink counts as existing.
func PathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// IsDir reports whether the path exists and is a directory.
func IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return info.IsDir(), nil
}

// RemoveFileIfExists removes the file, tolerating an already-absent path.
func RemoveFileIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file (%s):\n%w", path, err)
	}

	return nil
}
