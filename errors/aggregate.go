// Package errors combines the errors of operations that fan out, like invalidating several stores.
package errors

import (
	"strings"
)

// aggregate of errors into one.
type aggregate []error

// Error returns the string representation of the aggregated errors.
func (a aggregate) Error() string {
	b := strings.Builder{}
	for _, err := range a {
		b.WriteString(err.Error())
		b.WriteRune('\n')
	}
	return b.String()
}

// Unwrap returns the aggregated errors, so errors.Is and errors.As inspect each of them.
func (a aggregate) Unwrap() []error {
	return a
}

// Aggregate errors into one error. Nil errors are skipped and nil is returned when none is left.
func Aggregate(ee ...error) error {
	agr := make(aggregate, 0, len(ee))
	for _, err := range ee {
		if err == nil {
			continue
		}
		agr = append(agr, err)
	}
	if len(agr) == 0 {
		return nil
	}
	return agr
}
