package metadata

import "fmt"

// FormatError reports a model file that decodes but does not describe a
// well-formed assembly, or does not decode at all.
type FormatError struct {
	Path  string // file the document came from
	Where string // type or member being read, may be empty
	Err   error
}

func (e *FormatError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("%s: bad assembly description: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: bad assembly description: %v", e.Path, e.Where, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
