package domain

import "errors"

// LookupState is the outcome of a lookup.
type LookupState int

const (
	// LookupFound means the value is present.
	LookupFound LookupState = iota

	// LookupNotFound means the entity does not exist. Not a failure.
	LookupNotFound

	// LookupFailed means the lookup itself failed.
	LookupFailed
)

// Lookup is a typed outcome: Found(value), NotFound or Failed(reason).
type Lookup[T any] struct {
	State LookupState
	Value T
	Err   error
}

// Found wraps a present value.
func Found[T any](v T) Lookup[T] {
	return Lookup[T]{State: LookupFound, Value: v}
}

// NotFound reports an absent entity.
func NotFound[T any]() Lookup[T] {
	return Lookup[T]{State: LookupNotFound}
}

// Failed reports a lookup failure.
func Failed[T any](err error) Lookup[T] {
	return Lookup[T]{State: LookupFailed, Err: err}
}

// LookupOf converts a (value, error) pair. ErrNotFound and ErrCacheMiss
// become NotFound; any other error becomes Failed.
func LookupOf[T any](v T, err error) Lookup[T] {
	switch {
	case err == nil:
		return Found(v)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCacheMiss):
		return NotFound[T]()
	default:
		return Failed[T](err)
	}
}

// IsFound returns true for the Found state.
func (l Lookup[T]) IsFound() bool {
	return l.State == LookupFound
}
