// Package typeutil provides small generic helpers for asserting an any
// value to a concrete type at the boundary between this module's
// reflection-heavy core and its typed public API.
package typeutil

import "fmt"

// GetTypedValueOf calls getFn and asserts its result to T, wrapping either
// failure into a single error.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, fmt.Errorf("failed to get value: %w", err)
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type: %T", res)
	}

	return val, nil
}

// MustGetTypedValue is the panic-on-failure variant of GetTypedValueOf, for
// call sites where a type mismatch can only mean a programming error.
func MustGetTypedValue[T any](getFn func() (any, error)) T {
	res, err := GetTypedValueOf[T](getFn)
	if err != nil {
		panic(err)
	}
	return res
}
