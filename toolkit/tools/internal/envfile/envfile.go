// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

// Package envfile parses config files formatted like a Bash script
// containing only variable assignments (e.g. /etc/os-release).
package envfile

import (
	"fmt"
	"strings"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/file"
)

// ParseEnvFile reads and parses an env-style file.
func ParseEnvFile(path string) (map[string]string, error) {
	content, err := file.Read(path)
	if err != nil {
		return nil, err
	}

	fields, err := ParseEnv(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file (%s):\n%w", path, err)
	}

	return fields, nil
}

// ParseEnv parses the contents of an env-style file.
func ParseEnv(content string) (map[string]string, error) {
	result := make(map[string]string)

	for lineNum, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d is not a variable assignment", lineNum+1)
		}

		if name == "" || strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("line %d has an invalid variable name", lineNum+1)
		}

		result[name] = unquote(value)
	}

	return result, nil
}

// Values may be wrapped in single or double quotes.
// Full shell escaping is intentionally not supported; os-release values
// are restricted to simple quoting.
func unquote(value string) string {
	if len(value) >= 2 {
		first := value[0]
		last := value[len(value)-1]
		if first == last && (first == '"' || first == '\'') {
			return value[1 : len(value)-1]
		}
	}

	return value
}
