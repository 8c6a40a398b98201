// Package validation provides validation implementations.
package validation

import "strings"

// HasBlank reports whether one of the values is empty or only spaces. An empty slice has none.
func HasBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// OneOf reports whether the value equals one of the allowed values, ignoring case.
func OneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}
