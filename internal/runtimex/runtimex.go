// Package runtimex contains runtime extensions. This package is inspired to
// https://pkg.go.dev/github.com/m-lab/go/rtx, except that it's simpler.
package runtimex

import (
	"errors"
	"fmt"
)

// PanicOnError calls panic() if err is not nil. The type passed to
// panic is an error constructed such that errors.Is returns true
// for the original error.
func PanicOnError(err error, message string) {
	if err != nil {
		panic(fmt.Errorf("%s: %w", message, err))
	}
}

// Assert calls panic with an error constructed from message if
// the given assertion is false.
func Assert(assertion bool, message string) {
	if !assertion {
		panic(errors.New(message))
	}
}

// PanicIfNil calls panic with an error constructed from message if
// the given value is nil.
func PanicIfNil(value any, message string) {
	Assert(value != nil, message)
}

// Try0 calls [PanicOnError] if err is not nil.
func Try0(err error) {
	PanicOnError(err, "Try")
}

// Try1 is like [Try0] but supports one return value.
func Try1[T1 any](v1 T1, err error) T1 {
	Try0(err)
	return v1
}
