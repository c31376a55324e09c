// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package sliceutils

// ContainsValue reports whether the slice contains the value.
func ContainsValue[T comparable](slice []T, value T) bool {
	for _, entry := range slice {
		if entry == value {
			return true
		}
	}

	return false
}

// FindMatches returns all entries for which the predicate returns true.
func FindMatches[T any](slice []T, predicate func(T) bool) []T {
	matches := []T(nil)
	for _, entry := range slice {
		if predicate(entry) {
			matches = append(matches, entry)
		}
	}

	return matches
}

// RemoveValues returns a copy of the slice without any of the given values.
func RemoveValues[T comparable](slice []T, values []T) []T {
	result := []T(nil)
	for _, entry := range slice {
		if !ContainsValue(values, entry) {
			result = append(result, entry)
		}
	}

	return result
}
