// Package errs holds the error classes shared by the simulation packages.
//
// Every error returned by the sim packages wraps exactly one of these
// sentinels, so callers can classify failures with errors.Is regardless of
// which package produced them.
package errs

import "errors"

var (
	// ErrDomain marks parameters that produce non-physical results:
	// non-positive holding cost, production rate at or below demand,
	// probabilities outside [0, 1], unknown distribution names.
	ErrDomain = errors.New("domain error")

	// ErrBounds marks period indices outside the episode horizon or
	// periods processed out of order.
	ErrBounds = errors.New("bounds error")

	// ErrConfiguration marks unsupported combinations, such as safety
	// stock requested for a non-normal demand law or an unknown model type.
	ErrConfiguration = errors.New("configuration error")
)
