package classify

import (
	"errors"
	"fmt"
)

// ResolutionError reports a type reference no loaded assembly defines.
type ResolutionError struct {
	Identity string // the dangling identity
	From     string // assembly the reference was read from, may be empty
}

func (e *ResolutionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("cannot resolve type %s", e.Identity)
	}
	return fmt.Sprintf("cannot resolve type %s referenced from %s", e.Identity, e.From)
}

// Err returns the resolution failures recorded in strict mode, joined, or
// nil. Lenient classifiers never record any.
func (c *Classifier) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	errs := make([]error, len(c.errs))
	for i, e := range c.errs {
		errs[i] = e
	}
	return errors.Join(errs...)
}
