package sim

import "github.com/inventory-sim/inventory-sim/sim/errs"

// Error classes re-exported from sim/errs so callers of the environment
// need only this package.
var (
	ErrDomain        = errs.ErrDomain
	ErrBounds        = errs.ErrBounds
	ErrConfiguration = errs.ErrConfiguration
)
