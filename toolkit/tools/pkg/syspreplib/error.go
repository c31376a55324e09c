// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

type SysprepError struct {
	name    string
	message string
}

func NewSysprepError(name string, message string) *SysprepError {
	return &SysprepError{
		name:    name,
		message: message,
	}
}

func (e *SysprepError) Name() string {
	return e.name
}

func (e *SysprepError) Error() string {
	return e.message
}
