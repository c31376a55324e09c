// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package envfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnvBasic(t *testing.T) {
	fields, err := ParseEnv("ID=fedora\nNAME=\"Fedora Linux\"\nVERSION_ID=42\n")
	if !assert.NoError(t, err) {
		return
	}

	assert.Equal(t, map[string]string{
		"ID":         "fedora",
		"NAME":       "Fedora Linux",
		"VERSION_ID": "42",
	}, fields)
}

func TestParseEnvSkipsCommentsAndBlanks(t *testing.T) {
	fields, err := ParseEnv("# os-release\n\nID=debian\n   \n# trailing comment\n")
	if !assert.NoError(t, err) {
		return
	}

	assert.Equal(t, map[string]string{"ID": "debian"}, fields)
}

func TestParseEnvSingleQuotes(t *testing.T) {
	fields, err := ParseEnv("PRETTY_NAME='openSUSE Leap'\n")
	if !assert.NoError(t, err) {
		return
	}

	assert.Equal(t, "openSUSE Leap", fields["PRETTY_NAME"])
}

func TestParseEnvEmptyValue(t *testing.T) {
	fields, err := ParseEnv("VARIANT=\n")
	if !assert.NoError(t, err) {
		return
	}

	assert.Equal(t, "", fields["VARIANT"])
}

func TestParseEnvRejectsNonAssignment(t *testing.T) {
	_, err := ParseEnv("ID=fedora\nthis is not an assignment\n")
	assert.Error(t, err)
}

func TestParseEnvRejectsInvalidName(t *testing.T) {
	_, err := ParseEnv("BAD NAME=value\n")
	assert.Error(t, err)
}
