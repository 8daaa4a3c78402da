package main

import "errors"

// CleanupFuncs collects teardown funcs as dependencies come up and
// runs them in reverse order on shutdown.
type CleanupFuncs []func() error

func (cf *CleanupFuncs) Defer(f func() error) {
	*cf = append(*cf, f)
}

// Cleanup runs every registered func last-to-first. A failure does not
// stop the rest; the errors are joined.
func (cf *CleanupFuncs) Cleanup() error {
	errs := make([]error, 0)
	for i := len(*cf) - 1; i >= 0; i-- {
		if ferr := (*cf)[i](); ferr != nil {
			errs = append(errs, ferr)
		}
	}
	return errors.Join(errs...)
}
